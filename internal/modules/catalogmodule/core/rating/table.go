package rating

// Canonical codes, ordered from least to most restrictive.
const (
	CodeL  = "L"
	Code10 = "10"
	Code12 = "12"
	Code14 = "14"
	Code16 = "16"
	Code18 = "18"
)

// NoUpperAge is stored as the maximum age of every classified title.
const NoUpperAge = 99

var ladder = []struct {
	code string
	age  int
}{
	{CodeL, 0},
	{Code10, 10},
	{Code12, 12},
	{Code14, 14},
	{Code16, 16},
	{Code18, 18},
}

// rawToCode maps upper-cased raw classifications, from the Brazilian
// board and from US movie and TV ratings, to canonical codes.
var rawToCode = map[string]string{
	"L":     CodeL,
	"L+":    CodeL,
	"L++":   CodeL,
	"LIVRE": CodeL,
	"AL":    CodeL,
	"0":     CodeL,
	"G":     CodeL,
	"TV-Y":  CodeL,
	"TV-G":  CodeL,

	"10":    Code10,
	"10+":   Code10,
	"A10":   Code10,
	"PG":    Code10,
	"PG-10": Code10,
	"TV-Y7": Code10,
	"TV-PG": Code10,

	"12":    Code12,
	"12+":   Code12,
	"A12":   Code12,
	"PG-12": Code12,
	"PG-13": Code12,

	"14":    Code14,
	"14+":   Code14,
	"A14":   Code14,
	"TV-14": Code14,

	"16":  Code16,
	"16+": Code16,
	"A16": Code16,
	"R":   Code16,
	"R16": Code16,

	"18":      Code18,
	"18+":     Code18,
	"A18":     Code18,
	"R18":     Code18,
	"R18+":    Code18,
	"R+":      Code18,
	"NR":      Code18,
	"NR+":     Code18,
	"XXX":     Code18,
	"NC-17":   Code18,
	"TV-MA":   Code18,
	"TV-18":   Code18,
	"AO":      Code18,
	"UNRATED": Code18,
}

// restrictedRaw lists classifications that mark explicitly adult or
// unrated-for-minors content. Titles carrying them are removed from the
// catalog by the rating job.
var restrictedRaw = map[string]bool{
	"R":       true,
	"R+":      true,
	"NR":      true,
	"NC-17":   true,
	"TV-MA":   true,
	"TV-18":   true,
	"18":      true,
	"UNRATED": true,
	"AO":      true,
	"XXX":     true,
}
