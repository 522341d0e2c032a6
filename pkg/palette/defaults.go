package palette

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in block families.
const (
	FamilyTerracotta = "terracotta"
	FamilyWool       = "wool"
	FamilyConcrete   = "concrete"
	FamilyGlass      = "glass"
)

type namedColor struct {
	name string
	hex  string
}

// dyeColors are the sixteen dye colors shared by wool, concrete and stained glass.
var dyeColors = []namedColor{
	{"white", "#f9ffff"},
	{"light_gray", "#9c9d97"},
	{"gray", "#474f52"},
	{"black", "#1d1c21"},
	{"yellow", "#ffd83d"},
	{"orange", "#f9801d"},
	{"red", "#b02e26"},
	{"brown", "#825432"},
	{"lime", "#80c71f"},
	{"green", "#5d7c15"},
	{"light_blue", "#3ab3da"},
	{"cyan", "#169c9d"},
	{"blue", "#3c44a9"},
	{"pink", "#f38caa"},
	{"magenta", "#c64fbd"},
	{"purple", "#8932b7"},
}

var terracottaColors = []namedColor{
	{"minecraft:white_terracotta", "#d2b1a1"},
	{"minecraft:orange_terracotta", "#9d5123"},
	{"minecraft:magenta_terracotta", "#94566c"},
	{"minecraft:light_blue_terracotta", "#766f8c"},
	{"minecraft:yellow_terracotta", "#b88221"},
	{"minecraft:lime_terracotta", "#677535"},
	{"minecraft:pink_terracotta", "#a65151"},
	{"minecraft:gray_terracotta", "#3a2b24"},
	{"minecraft:light_gray_terracotta", "#876b62"},
	{"minecraft:cyan_terracotta", "#565c5c"},
	{"minecraft:purple_terracotta", "#7b4a59"},
	{"minecraft:blue_terracotta", "#4a3b5b"},
	{"minecraft:brown_terracotta", "#4f3524"},
	{"minecraft:green_terracotta", "#4e552c"},
	{"minecraft:red_terracotta", "#8d3a2d"},
	{"minecraft:black_terracotta", "#251710"},
	{"minecraft:terracotta", "#e2725b"},
}

var dyeSuffix = map[string]string{
	FamilyWool:     "_wool",
	FamilyConcrete: "_concrete",
	FamilyGlass:    "_stained_glass",
}

// Families returns the built-in family names in sorted order.
func Families() []string {
	names := []string{FamilyTerracotta}
	for name := range dyeSuffix {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFamily reports whether name selects a built-in palette.
func IsFamily(name string) bool {
	name = canonicalFamily(name)
	_, dye := dyeSuffix[name]
	return dye || name == FamilyTerracotta
}

func canonicalFamily(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "glas" || name == "stained_glass" {
		return FamilyGlass
	}
	return name
}

// Default returns a fresh copy of a built-in palette.
func Default(family string) (*Palette, error) {
	family = canonicalFamily(family)

	var colors []namedColor
	if family == FamilyTerracotta {
		colors = terracottaColors
	} else if suffix, ok := dyeSuffix[family]; ok {
		colors = make([]namedColor, len(dyeColors))
		for i, c := range dyeColors {
			colors[i] = namedColor{name: "minecraft:" + c.name + suffix, hex: c.hex}
		}
	} else {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFamily, family, strings.Join(Families(), ", "))
	}

	entries := make([]Entry, len(colors))
	for i, c := range colors {
		rgb, err := ParseHex(c.hex)
		if err != nil {
			return nil, err
		}
		entries[i] = Entry{ID: c.name, Color: rgb}
	}
	p, _ := New(entries)
	return p, nil
}
