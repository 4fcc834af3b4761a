// Package manifest builds the metadata.xml document the media server reads
// from every uploaded package.
package manifest

import "encoding/xml"

// TypeDual marks a talk that has both low and high quality renditions
// available to the player.
const TypeDual = "dual"

// MetaCast is the root of metadata.xml. Absent optional values are left out
// of the document rather than written as placeholders.
type MetaCast struct {
	XMLName   xml.Name   `xml:"metacast"`
	Type      string     `xml:"type,attr"`
	Language  string     `xml:"language,attr"`
	Title     string     `xml:"title"`
	Speaker   *Speaker   `xml:"speaker"`
	License   *License   `xml:"license"`
	Category  string     `xml:"category"`
	Creation  string     `xml:"creation"`
	Format    string     `xml:"format,omitempty"`
	Start     *int       `xml:"start"`
	Duration  *int       `xml:"duration"`
	Resources []Resource `xml:"resources>resource"`
}

type Speaker struct {
	Name string `xml:",chardata"`
}

type License struct {
	Name string `xml:",chardata"`
}

// Resource points at one rendition on the public CDN.
type Resource struct {
	URL          string `xml:",chardata"`
	Quality      string `xml:"quality,attr"`
	Downloadable bool   `xml:"downloadable,attr"`
	Displayable  bool   `xml:"displayable,attr"`
}
