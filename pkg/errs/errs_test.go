package errs_test

import (
	"errors"
	"testing"

	"github.com/okian/boardshelf/pkg/errs"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	errKind  = errors.New("kind")
	errCause = errors.New("cause")
)

func TestErrorWrapping(t *testing.T) {
	Convey("Given op-scoped errors", t, func() {
		Convey("WrapKind matches both kind and cause", func() {
			err := errs.WrapKind("pkg.op", errKind, errCause)
			So(errors.Is(err, errKind), ShouldBeTrue)
			So(errors.Is(err, errCause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "pkg.op: kind: cause")
		})

		Convey("NewKind carries only the kind", func() {
			err := errs.NewKind("pkg.op", errKind)
			So(errors.Is(err, errKind), ShouldBeTrue)
			So(errors.Is(err, errCause), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "pkg.op: kind")
		})

		Convey("Wrap of nil is nil", func() {
			So(errs.Wrap("pkg.op", nil), ShouldBeNil)
		})
	})
}
