package bggfake

import (
	"encoding/xml"
	"strconv"
)

const termsOfUse = "https://boardgamegeek.com/xmlapi/termsofuse"

type xmlValue struct {
	Value string `xml:"value,attr"`
}

type xmlName struct {
	Type      string `xml:"type,attr"`
	SortIndex int    `xml:"sortindex,attr"`
	Value     string `xml:"value,attr"`
}

type xmlLink struct {
	Type  string `xml:"type,attr"`
	ID    int    `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

type xmlRatings struct {
	Average       *xmlValue `xml:"average,omitempty"`
	BayesAverage  *xmlValue `xml:"bayesaverage,omitempty"`
	AverageWeight *xmlValue `xml:"averageweight,omitempty"`
}

type xmlStatistics struct {
	Page    int        `xml:"page,attr"`
	Ratings xmlRatings `xml:"ratings"`
}

type xmlThing struct {
	Type        string         `xml:"type,attr"`
	ID          int            `xml:"id,attr"`
	Thumbnail   string         `xml:"thumbnail,omitempty"`
	Image       string         `xml:"image,omitempty"`
	Names       []xmlName      `xml:"name"`
	Year        *xmlValue      `xml:"yearpublished,omitempty"`
	MinPlayers  *xmlValue      `xml:"minplayers,omitempty"`
	MaxPlayers  *xmlValue      `xml:"maxplayers,omitempty"`
	PlayingTime *xmlValue      `xml:"playingtime,omitempty"`
	Links       []xmlLink      `xml:"link"`
	Statistics  *xmlStatistics `xml:"statistics,omitempty"`
}

type xmlThings struct {
	XMLName    xml.Name   `xml:"items"`
	TermsOfUse string     `xml:"termsofuse,attr"`
	Items      []xmlThing `xml:"item"`
}

type xmlCollectionItem struct {
	ObjectType string   `xml:"objecttype,attr"`
	ObjectID   int      `xml:"objectid,attr"`
	Subtype    string   `xml:"subtype,attr"`
	Name       string   `xml:"name"`
	Rating     xmlValue `xml:"stats>rating"`
}

type xmlCollection struct {
	XMLName    xml.Name            `xml:"items"`
	TotalItems int                 `xml:"totalitems,attr"`
	TermsOfUse string              `xml:"termsofuse,attr"`
	Items      []xmlCollectionItem `xml:"item"`
}

type xmlErrors struct {
	XMLName xml.Name `xml:"errors"`
	Message string   `xml:"error>message"`
}

func intValue(v int) *xmlValue {
	if v == 0 {
		return nil
	}
	return &xmlValue{Value: strconv.Itoa(v)}
}

func floatValue(v float64) *xmlValue {
	if v == 0 {
		return nil
	}
	return &xmlValue{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

func renderThing(g *Game) xmlThing {
	t := xmlThing{
		Type:        "boardgame",
		ID:          g.ID,
		Thumbnail:   g.Thumbnail,
		Image:       g.Image,
		Year:        intValue(g.Year),
		MinPlayers:  intValue(g.MinPlayers),
		MaxPlayers:  intValue(g.MaxPlayers),
		PlayingTime: intValue(g.PlayingTime),
		Statistics: &xmlStatistics{Page: 1, Ratings: xmlRatings{
			Average:       floatValue(g.Average),
			BayesAverage:  floatValue(g.Bayes),
			AverageWeight: floatValue(g.Weight),
		}},
	}
	if g.Name != "" {
		t.Names = append(t.Names, xmlName{Type: "primary", SortIndex: 1, Value: g.Name})
	}
	for _, alt := range g.AltNames {
		t.Names = append(t.Names, xmlName{Type: "alternate", SortIndex: 1, Value: alt})
	}

	linkID := 1
	addLinks := func(kind string, values []string) {
		for _, v := range values {
			t.Links = append(t.Links, xmlLink{Type: kind, ID: linkID, Value: v})
			linkID++
		}
	}
	addLinks("boardgamecategory", g.Categories)
	addLinks("boardgamemechanic", g.Mechanics)
	addLinks("boardgamedesigner", g.Designers)
	addLinks("boardgameartist", g.Artists)
	addLinks("boardgamepublisher", g.Publishers)
	return t
}

func marshalDocument(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
