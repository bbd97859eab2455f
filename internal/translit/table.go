// Package translit holds the fixed Cyrillic to Latin mapping table and the
// pure transform that applies it. The table covers the 33 lowercase and 33
// uppercase letters of the Russian alphabet; every other character maps to
// itself.
package translit

import "strings"

// Mapping represents a single character replacement rule.
type Mapping struct {
	From rune   `json:"from"`
	To   string `json:"to"`
}

// Table is an immutable association from a single rune to its replacement.
// It keeps the mappings in alphabet order for reporting alongside an index
// used for lookups.
type Table struct {
	mappings []Mapping
	index    map[rune]string
}

// russian lists the alphabet in order, lowercase letters first.
var russian = []Mapping{
	{'а', "a"}, {'б', "b"}, {'в', "v"}, {'г', "g"}, {'д', "d"}, {'е', "e"},
	{'ё', "yo"}, {'ж', "zh"}, {'з', "z"}, {'и', "i"}, {'й', "y"}, {'к', "k"},
	{'л', "l"}, {'м', "m"}, {'н', "n"}, {'о', "o"}, {'п', "p"}, {'р', "r"},
	{'с', "s"}, {'т', "t"}, {'у', "u"}, {'ф', "f"}, {'х', "kh"}, {'ц', "ts"},
	{'ч', "ch"}, {'ш', "sh"}, {'щ', "shch"}, {'ъ', ""}, {'ы', "y"}, {'ь', ""},
	{'э', "e"}, {'ю', "yu"}, {'я', "ya"},

	{'А', "A"}, {'Б', "B"}, {'В', "V"}, {'Г', "G"}, {'Д', "D"}, {'Е', "E"},
	{'Ё', "Yo"}, {'Ж', "Zh"}, {'З', "Z"}, {'И', "I"}, {'Й', "Y"}, {'К', "K"},
	{'Л', "L"}, {'М', "M"}, {'Н', "N"}, {'О', "O"}, {'П', "P"}, {'Р', "R"},
	{'С', "S"}, {'Т', "T"}, {'У', "U"}, {'Ф', "F"}, {'Х', "Kh"}, {'Ц', "Ts"},
	{'Ч', "Ch"}, {'Ш', "Sh"}, {'Щ', "Shch"}, {'Ъ', ""}, {'Ы', "Y"}, {'Ь', ""},
	{'Э', "E"}, {'Ю', "Yu"}, {'Я', "Ya"},
}

var defaultTable = newTable(russian)

// Default returns the process-wide Russian table. It is built once at package
// initialisation and never mutated.
func Default() *Table {
	return defaultTable
}

func newTable(mappings []Mapping) *Table {
	t := &Table{
		mappings: mappings,
		index:    make(map[rune]string, len(mappings)),
	}
	for _, m := range mappings {
		t.index[m.From] = m.To
	}
	return t
}

// Mappings returns a copy of the table entries, lowercase letters first.
func (t *Table) Mappings() []Mapping {
	out := make([]Mapping, len(t.mappings))
	copy(out, t.mappings)
	return out
}

// Size returns the number of entries in the table.
func (t *Table) Size() int {
	return len(t.index)
}

// Lookup returns the replacement for r and whether r is a table key.
func (t *Table) Lookup(r rune) (string, bool) {
	to, ok := t.index[r]
	return to, ok
}

// Transliterate maps every rune of s through the table, keeping unmapped runes
// as they are. It never fails.
func (t *Table) Transliterate(s string) string {
	out, _ := t.transliterate(s)
	return out
}

// TransliterateCount is Transliterate that also reports how many runes were
// table keys.
func (t *Table) TransliterateCount(s string) (string, int) {
	return t.transliterate(s)
}

func (t *Table) transliterate(s string) (string, int) {
	var b strings.Builder
	b.Grow(len(s))

	mapped := 0
	for _, r := range s {
		if to, ok := t.index[r]; ok {
			b.WriteString(to)
			mapped++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), mapped
}

// Transliterate applies the default Russian table to s.
func Transliterate(s string) string {
	return defaultTable.Transliterate(s)
}
