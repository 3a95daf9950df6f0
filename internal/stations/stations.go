package stations

import (
	"math"
	"strings"
)

// Station describes one known shortwave station.
type Station struct {
	Freq float64 `json:"freq"` // Hz
	Name string  `json:"name"`
	Time string  `json:"time"` // best reception time: "24h", "day", "night"
	Mode string  `json:"mode"` // am/usb/lsb
}

// Category groups stations by the kind of traffic they carry.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryTime      Category = "time"
	CategoryBroadcast Category = "broadcast"
	CategoryAmateur   Category = "amateur"
	CategoryMystery   Category = "mystery"
)

// directory lists verified active stations. Frequencies in Hz.
var directory = []Station{
	// time stations (always on)
	{2500000, "wwv 2.5", "24h", "am"},
	{5000000, "wwv 5", "24h", "am"},
	{10000000, "wwv 10", "24h", "am"},
	{15000000, "wwv 15", "24h", "am"},
	{20000000, "wwv 20", "24h", "am"},
	{3330000, "chv", "24h", "am"},
	{7850000, "chv", "24h", "am"},
	{14670000, "chv", "24h", "am"},

	// bbc world service
	{3255000, "bbc", "night", "am"},
	{5875000, "bbc", "night", "am"},
	{6195000, "bbc", "night", "am"},
	{9410000, "bbc", "night", "am"},
	{12095000, "bbc", "day", "am"},
	{15400000, "bbc", "day", "am"},

	// voice of america
	{6080000, "voa", "night", "am"},
	{9885000, "voa", "night", "am"},
	{15580000, "voa", "day", "am"},

	// radio havana cuba
	{6000000, "rhc", "night", "am"},
	{6165000, "rhc", "night", "am"},
	{11760000, "rhc", "night", "am"},

	// china radio international
	{9570000, "cri", "night", "am"},
	{11710000, "cri", "day", "am"},
	{13640000, "cri", "day", "am"},

	// amateur radio bands (always active)
	{3750000, "80m ssb", "night", "lsb"},
	{7074000, "40m ft8", "24h", "usb"},
	{7200000, "40m ssb", "night", "lsb"},
	{14074000, "20m ft8", "day", "usb"},
	{14230000, "20m ssb", "day", "usb"},
	{21074000, "15m ft8", "day", "usb"},
	{21200000, "15m ssb", "day", "usb"},
	{28074000, "10m ft8", "day", "usb"},
	{28400000, "10m ssb", "day", "usb"},

	// numbers stations
	{4625000, "uvb-76", "24h", "am"},
	{8992000, "hfgcs", "24h", "usb"},
	{11175000, "hfgcs", "24h", "usb"},

	// pirate radio (evenings/weekends)
	{6925000, "pirate", "night", "am"},
	{6930000, "pirate", "night", "am"},
	{6935000, "pirate", "night", "am"},

	// aviation
	{5680000, "aviation", "24h", "usb"},
	{8891000, "aviation", "24h", "usb"},
	{11336000, "aviation", "24h", "usb"},

	// weather fax
	{3357000, "weather fax", "24h", "usb"},
	{7795000, "weather fax", "24h", "usb"},
	{9982500, "weather fax", "24h", "usb"},
}

// categoryMarkers maps each category to the name substrings that select it.
var categoryMarkers = map[Category][]string{
	CategoryTime:      {"wwv", "chv"},
	CategoryBroadcast: {"bbc", "voa", "rhc", "cri"},
	CategoryAmateur:   {"ssb", "ft8"},
	CategoryMystery:   {"uvb", "hfgcs", "pirate"},
}

// favorites indexes quick-access entries in the directory.
var favorites = []int{
	1,  // wwv 5mhz time signal
	13, // bbc world service
	25, // 40m amateur
	27, // 20m amateur
	32, // uvb-76 buzzer
	35, // pirate radio
}

// All returns the full station directory.
func All() []Station {
	out := make([]Station, len(directory))
	copy(out, directory)
	return out
}

// ByCategory returns the stations whose name matches the category's
// substring markers. CategoryAll and unknown categories return everything.
func ByCategory(cat Category) []Station {
	markers, ok := categoryMarkers[cat]
	if !ok {
		return All()
	}

	var out []Station
	for _, s := range directory {
		for _, m := range markers {
			if strings.Contains(s.Name, m) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Nearest returns the station closest to freq within 1 MHz, or false when
// nothing is that close.
func Nearest(freq float64) (Station, bool) {
	const maxDiff = 1e6

	best := -1
	bestDiff := maxDiff
	for i, s := range directory {
		if diff := math.Abs(s.Freq - freq); diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	if best < 0 {
		return Station{}, false
	}
	return directory[best], true
}

// Favorites returns the curated quick-access stations.
func Favorites() []Station {
	out := make([]Station, 0, len(favorites))
	for _, i := range favorites {
		out = append(out, directory[i])
	}
	return out
}
