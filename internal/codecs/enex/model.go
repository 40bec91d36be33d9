package enex

import (
	"encoding/xml"
	"strings"
	"time"
)

// TimeLayout is the ENEX timestamp format, always UTC.
const TimeLayout = "20060102T150405Z"

const (
	exportDoctype = `<!DOCTYPE en-export SYSTEM "http://xml.evernote.com/pub/evernote-export4.dtd">`
	noteHeader    = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">` + "\n"
)

type export struct {
	XMLName     xml.Name `xml:"en-export"`
	ExportDate  string   `xml:"export-date,attr,omitempty"`
	Application string   `xml:"application,attr,omitempty"`
	Version     string   `xml:"version,attr,omitempty"`
	Notes       []note   `xml:"note"`
}

type note struct {
	Title   string   `xml:"title"`
	Content content  `xml:"content"`
	Created string   `xml:"created,omitempty"`
	Updated string   `xml:"updated,omitempty"`
	Tags    []string `xml:"tag"`
}

type content struct {
	Body string `xml:",cdata"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
