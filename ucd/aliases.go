package ucd

import (
	"fmt"
	"slices"

	"github.com/ozontech/propescape/consts"
)

// Property names accepted inside a property escape.
// https://www.unicode.org/Public/UCD/latest/ucd/PropertyAliases.txt
const (
	PropScript           = "Script"
	PropScriptExtensions = "Script_Extensions"
)

var propertyNames = map[string]string{
	"Script":            PropScript,
	"sc":                PropScript,
	"Script_Extensions": PropScriptExtensions,
	"scx":               PropScriptExtensions,
}

var propertyShort = map[string]string{
	PropScript:           "sc",
	PropScriptExtensions: "scx",
}

// LookupProperty resolves a property name or its short alias to the long name.
// Matching is exact, as in ECMAScript property escapes.
func LookupProperty(name string) (string, error) {
	p, ok := propertyNames[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", consts.ErrUnknownProp, name)
	}
	return p, nil
}

type Script struct {
	Long  string
	Short string
}

// Script values and their ISO 15924 codes.
// https://www.unicode.org/Public/UCD/latest/ucd/PropertyValueAliases.txt
var scripts = []Script{
	{"Adlam", "Adlm"},
	{"Ahom", "Ahom"},
	{"Anatolian_Hieroglyphs", "Hluw"},
	{"Arabic", "Arab"},
	{"Armenian", "Armn"},
	{"Avestan", "Avst"},
	{"Balinese", "Bali"},
	{"Bamum", "Bamu"},
	{"Bassa_Vah", "Bass"},
	{"Batak", "Batk"},
	{"Bengali", "Beng"},
	{"Bhaiksuki", "Bhks"},
	{"Bopomofo", "Bopo"},
	{"Brahmi", "Brah"},
	{"Braille", "Brai"},
	{"Buginese", "Bugi"},
	{"Buhid", "Buhd"},
	{"Canadian_Aboriginal", "Cans"},
	{"Carian", "Cari"},
	{"Caucasian_Albanian", "Aghb"},
	{"Chakma", "Cakm"},
	{"Cham", "Cham"},
	{"Cherokee", "Cher"},
	{"Chorasmian", "Chrs"},
	{"Common", "Zyyy"},
	{"Coptic", "Copt"},
	{"Cuneiform", "Xsux"},
	{"Cypriot", "Cprt"},
	{"Cypro_Minoan", "Cpmn"},
	{"Cyrillic", "Cyrl"},
	{"Deseret", "Dsrt"},
	{"Devanagari", "Deva"},
	{"Dives_Akuru", "Diak"},
	{"Dogra", "Dogr"},
	{"Duployan", "Dupl"},
	{"Egyptian_Hieroglyphs", "Egyp"},
	{"Elbasan", "Elba"},
	{"Elymaic", "Elym"},
	{"Ethiopic", "Ethi"},
	{"Georgian", "Geor"},
	{"Glagolitic", "Glag"},
	{"Gothic", "Goth"},
	{"Grantha", "Gran"},
	{"Greek", "Grek"},
	{"Gujarati", "Gujr"},
	{"Gunjala_Gondi", "Gong"},
	{"Gurmukhi", "Guru"},
	{"Han", "Hani"},
	{"Hangul", "Hang"},
	{"Hanifi_Rohingya", "Rohg"},
	{"Hanunoo", "Hano"},
	{"Hatran", "Hatr"},
	{"Hebrew", "Hebr"},
	{"Hiragana", "Hira"},
	{"Imperial_Aramaic", "Armi"},
	{"Inherited", "Zinh"},
	{"Inscriptional_Pahlavi", "Phli"},
	{"Inscriptional_Parthian", "Prti"},
	{"Javanese", "Java"},
	{"Kaithi", "Kthi"},
	{"Kannada", "Knda"},
	{"Katakana", "Kana"},
	{"Kawi", "Kawi"},
	{"Kayah_Li", "Kali"},
	{"Kharoshthi", "Khar"},
	{"Khitan_Small_Script", "Kits"},
	{"Khmer", "Khmr"},
	{"Khojki", "Khoj"},
	{"Khudawadi", "Sind"},
	{"Lao", "Laoo"},
	{"Latin", "Latn"},
	{"Lepcha", "Lepc"},
	{"Limbu", "Limb"},
	{"Linear_A", "Lina"},
	{"Linear_B", "Linb"},
	{"Lisu", "Lisu"},
	{"Lycian", "Lyci"},
	{"Lydian", "Lydi"},
	{"Mahajani", "Mahj"},
	{"Makasar", "Maka"},
	{"Malayalam", "Mlym"},
	{"Mandaic", "Mand"},
	{"Manichaean", "Mani"},
	{"Marchen", "Marc"},
	{"Masaram_Gondi", "Gonm"},
	{"Medefaidrin", "Medf"},
	{"Meetei_Mayek", "Mtei"},
	{"Mende_Kikakui", "Mend"},
	{"Meroitic_Cursive", "Merc"},
	{"Meroitic_Hieroglyphs", "Mero"},
	{"Miao", "Plrd"},
	{"Modi", "Modi"},
	{"Mongolian", "Mong"},
	{"Mro", "Mroo"},
	{"Multani", "Mult"},
	{"Myanmar", "Mymr"},
	{"Nabataean", "Nbat"},
	{"Nag_Mundari", "Nagm"},
	{"Nandinagari", "Nand"},
	{"New_Tai_Lue", "Talu"},
	{"Newa", "Newa"},
	{"Nko", "Nkoo"},
	{"Nushu", "Nshu"},
	{"Nyiakeng_Puachue_Hmong", "Hmnp"},
	{"Ogham", "Ogam"},
	{"Ol_Chiki", "Olck"},
	{"Old_Hungarian", "Hung"},
	{"Old_Italic", "Ital"},
	{"Old_North_Arabian", "Narb"},
	{"Old_Permic", "Perm"},
	{"Old_Persian", "Xpeo"},
	{"Old_Sogdian", "Sogo"},
	{"Old_South_Arabian", "Sarb"},
	{"Old_Turkic", "Orkh"},
	{"Old_Uyghur", "Ougr"},
	{"Oriya", "Orya"},
	{"Osage", "Osge"},
	{"Osmanya", "Osma"},
	{"Pahawh_Hmong", "Hmng"},
	{"Palmyrene", "Palm"},
	{"Pau_Cin_Hau", "Pauc"},
	{"Phags_Pa", "Phag"},
	{"Phoenician", "Phnx"},
	{"Psalter_Pahlavi", "Phlp"},
	{"Rejang", "Rjng"},
	{"Runic", "Runr"},
	{"Samaritan", "Samr"},
	{"Saurashtra", "Saur"},
	{"Sharada", "Shrd"},
	{"Shavian", "Shaw"},
	{"Siddham", "Sidd"},
	{"SignWriting", "Sgnw"},
	{"Sinhala", "Sinh"},
	{"Sogdian", "Sogd"},
	{"Sora_Sompeng", "Sora"},
	{"Soyombo", "Soyo"},
	{"Sundanese", "Sund"},
	{"Syloti_Nagri", "Sylo"},
	{"Syriac", "Syrc"},
	{"Tagalog", "Tglg"},
	{"Tagbanwa", "Tagb"},
	{"Tai_Le", "Tale"},
	{"Tai_Tham", "Lana"},
	{"Tai_Viet", "Tavt"},
	{"Takri", "Takr"},
	{"Tamil", "Taml"},
	{"Tangsa", "Tnsa"},
	{"Tangut", "Tang"},
	{"Telugu", "Telu"},
	{"Thaana", "Thaa"},
	{"Thai", "Thai"},
	{"Tibetan", "Tibt"},
	{"Tifinagh", "Tfng"},
	{"Tirhuta", "Tirh"},
	{"Toto", "Toto"},
	{"Ugaritic", "Ugar"},
	{"Vai", "Vaii"},
	{"Vithkuqi", "Vith"},
	{"Wancho", "Wcho"},
	{"Warang_Citi", "Wara"},
	{"Yezidi", "Yezi"},
	{"Yi", "Yiii"},
	{"Zanabazar_Square", "Zanb"},
}

// Extra value aliases listed after the short code in PropertyValueAliases.txt.
var scriptExtraAliases = map[string]string{
	"Qaac": "Coptic",
	"Qaai": "Inherited",
}

var scriptIndex = func() map[string]Script {
	idx := make(map[string]Script, len(scripts)*2+len(scriptExtraAliases))
	for _, s := range scripts {
		idx[s.Long] = s
		idx[s.Short] = s
	}
	for alias, long := range scriptExtraAliases {
		idx[alias] = idx[long]
	}
	return idx
}()

// LookupScript resolves a long name, a short code or an extra alias.
func LookupScript(name string) (Script, error) {
	s, ok := scriptIndex[name]
	if !ok {
		return Script{}, fmt.Errorf("%w: %q", consts.ErrUnknownScript, name)
	}
	return s, nil
}

// Scripts lists every known script ordered by long name.
func Scripts() []Script {
	return slices.Clone(scripts)
}

// Aliases returns every `name=value` spelling of prop=script: long property
// name before short, long value before short. Identical spellings are
// listed once.
func Aliases(prop, script string) ([]string, error) {
	p, err := LookupProperty(prop)
	if err != nil {
		return nil, err
	}
	s, err := LookupScript(script)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, 4)
	for _, name := range []string{p, propertyShort[p]} {
		for _, value := range []string{s.Long, s.Short} {
			expr := name + "=" + value
			if !slices.Contains(out, expr) {
				out = append(out, expr)
			}
		}
	}
	return out, nil
}
