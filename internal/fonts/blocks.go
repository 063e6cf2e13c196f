package fonts

import "sort"

// Block is a named Unicode block. Stores bucket their index tables by
// block, so only clusters whose first codepoint falls in a listed block
// can be stored.
type Block struct {
	Low, High rune
	Name      string
}

// Blocks lists the usable blocks in ascending order.
var Blocks = []Block{
	{0x0000, 0x007F, "BASIC_LATIN"},
	{0x0080, 0x00FF, "LATIN_1_SUPPLEMENT"},
	{0x0100, 0x017F, "LATIN_EXTENDED_A"},
	{0x0180, 0x024F, "LATIN_EXTENDED_B"},
	{0x0250, 0x02AF, "IPA_EXTENSIONS"},
	{0x02B0, 0x02FF, "SPACING_MODIFIER_LETTERS"},
	{0x0300, 0x036F, "COMBINING_DIACRITICAL_MARKS"},
	{0x0370, 0x03FF, "GREEK_AND_COPTIC"},
	{0x0400, 0x04FF, "CYRILLIC"},
	{0x2000, 0x206F, "GENERAL_PUNCTUATION"},
	{0x2070, 0x209F, "SUPERSCRIPTS_AND_SUBSCRIPTS"},
	{0x20A0, 0x20CF, "CURRENCY_SYMBOLS"},
	{0x2100, 0x214F, "LETTERLIKE_SYMBOLS"},
	{0x2190, 0x21FF, "ARROWS"},
	{0x2200, 0x22FF, "MATHEMATICAL_OPERATORS"},
	{0x2300, 0x23FF, "MISCELLANEOUS_TECHNICAL"},
	{0x2400, 0x243F, "CONTROL_PICTURES"},
	{0x2460, 0x24FF, "ENCLOSED_ALPHANUMERICS"},
	{0x2500, 0x257F, "BOX_DRAWING"},
	{0x2580, 0x259F, "BLOCK_ELEMENTS"},
	{0x25A0, 0x25FF, "GEOMETRIC_SHAPES"},
	{0x2600, 0x26FF, "MISCELLANEOUS_SYMBOLS"},
	{0x2700, 0x27BF, "DINGBATS"},
	{0x2900, 0x297F, "SUPPLEMENTAL_ARROWS_B"},
	{0x2B00, 0x2BFF, "MISCELLANEOUS_SYMBOLS_AND_ARROWS"},
	{0x3000, 0x303F, "CJK_SYMBOLS_AND_PUNCTUATION"},
	{0x3040, 0x309F, "HIRAGANA"},
	{0x30A0, 0x30FF, "KATAKANA"},
	{0x3200, 0x32FF, "ENCLOSED_CJK_LETTERS_AND_MONTHS"},
	{0x4E00, 0x9FFF, "CJK_UNIFIED_IDEOGRAPHS"},
	{0xE000, 0xF8FF, "PRIVATE_USE_AREA"},
	{0xFF00, 0xFFEF, "HALFWIDTH_AND_FULLWIDTH_FORMS"},
	{0xFFF0, 0xFFFF, "SPECIALS"},
	{0x1F000, 0x1F02F, "MAHJONG_TILES"},
	{0x1F0A0, 0x1F0FF, "PLAYING_CARDS"},
	{0x1F100, 0x1F1FF, "ENCLOSED_ALPHANUMERIC_SUPPLEMENT"},
	{0x1F200, 0x1F2FF, "ENCLOSED_IDEOGRAPHIC_SUPPLEMENT"},
	{0x1F300, 0x1F5FF, "MISCELLANEOUS_SYMBOLS_AND_PICTOGRAPHS"},
	{0x1F600, 0x1F64F, "EMOTICONS"},
	{0x1F680, 0x1F6FF, "TRANSPORT_AND_MAP_SYMBOLS"},
	{0x1F780, 0x1F7FF, "GEOMETRIC_SHAPES_EXTENDED"},
	{0x1F900, 0x1F9FF, "SUPPLEMENTAL_SYMBOLS_AND_PICTOGRAPHS"},
	{0x1FA70, 0x1FAFF, "SYMBOLS_AND_PICTOGRAPHS_EXTENDED_A"},
}

// BlockOf returns the block containing r.
func BlockOf(r rune) (Block, bool) {
	i := sort.Search(len(Blocks), func(i int) bool { return Blocks[i].High >= r })
	if i < len(Blocks) && Blocks[i].Low <= r {
		return Blocks[i], true
	}
	return Block{}, false
}

// BlockNamed returns the block with the given name.
func BlockNamed(name string) (Block, bool) {
	for _, b := range Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return Block{}, false
}
