package audit

import (
	"strings"

	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// Category is one Life Audit bucket and the workbook columns that feed it.
type Category struct {
	Name          string
	StrongColumn  string
	MildColumn    string
	RemedyColumns []string
}

// Category names, in display order.
const (
	Colours    = "Colours / Décor"
	Foods      = "Foods"
	Crystals   = "Crystals & Gemstones"
	Activities = "Activities"
	Elements   = "Elements"
	People     = "People (Signs)"
)

var categories = []Category{
	{Colours, "Avoid Household (strong)", "Avoid Household (mild)", []string{"Colour", "Household Items"}},
	{Foods, "Avoid Foods (strong)", "Avoid Foods (mild)", []string{"Foods", "Foods"}},
	{Crystals, "Avoid Crystals (strong)", "Avoid Crystals (mild)", []string{"Primary Crystals", "Alternative Crystals / Gemstones"}},
	{Activities, "Avoid Activities (strong)", "Avoid Activities (mild)", []string{"Favorable Activities", "Favorable Activities"}},
	{Elements, "Avoid Elements (strong)", "Avoid Elements (mild)", []string{"Element", "Element"}},
	{People, "Enemy Signs (strong)", "Enemy Signs (mild)", nil},
}

// Categories returns the audit categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByName returns the category with the given name.
func CategoryByName(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// remedies is the fixed decision table: per category, the suggestions for
// the dominant hit severity.
var remedies = map[string]map[models.Level][]string{
	Colours: {
		models.Strong: {
			"Remove or cover the flagged décor in rooms you use daily",
			"Repaint or re-upholster in your sign colours",
			"Add a supportive household item from your list",
		},
		models.Mild: {
			"Keep the flagged pieces out of the bedroom and workspace",
			"Balance them with accents in your sign colours",
		},
	},
	Foods: {
		models.Strong: {
			"Cut the flagged foods from your regular meals",
			"Swap in foods favourable to your sign",
			"Keep a short list of swaps for eating out",
		},
		models.Mild: {
			"Limit the flagged foods to occasional meals",
			"Pair them with a favourable food",
		},
	},
	Crystals: {
		models.Strong: {
			"Stop wearing the flagged stones",
			"Store them away from your bed and desk",
			"Carry a primary crystal of your sign instead",
		},
		models.Mild: {
			"Wear the flagged stones only occasionally",
			"Combine them with an alternative crystal of your sign",
		},
	},
	Activities: {
		models.Strong: {
			"Drop or postpone the flagged activities",
			"Replace them with a favourable activity",
			"Schedule unavoidable sessions on a good day (see Activity Timing)",
		},
		models.Mild: {
			"Do the flagged activities less often",
			"Follow them with a favourable activity",
		},
	},
	Elements: {
		models.Strong: {
			"Move items of the flagged element out of your best zones",
			"Strengthen your own element in the room",
			"Use a balancing shape (see House Zone Checker)",
		},
		models.Mild: {
			"Keep the flagged element to small accents",
			"Balance it with your own element",
		},
	},
	People: {
		models.Strong: {
			"Keep shared decisions short and explicit",
			"Meet on neutral ground",
			"Agree roles in writing before working together",
		},
		models.Mild: {
			"Expect friction on small matters",
			"Plan joint activities on good timing days",
		},
	},
}

const maxRemedies = 3

// Remedies returns up to three suggestions for a category at a severity.
// OK has none.
func Remedies(category string, level models.Level) []string {
	list := remedies[category][level]
	if len(list) > maxRemedies {
		list = list[:maxRemedies]
	}
	return append([]string(nil), list...)
}

// RulesFor reads a sign's avoid lists for cat. Missing tables, rows or
// columns give empty rules.
func RulesFor(tables *workbook.Tables, sign string, cat Category) Rules {
	if tables == nil || sign == "" {
		return Rules{}
	}
	return NewRules(tables.Avoid(sign, cat.StrongColumn), tables.Avoid(sign, cat.MildColumn))
}

// Evaluate grades every token of input against rules and aggregates the
// result for the category.
func Evaluate(cat Category, input string, rules Rules, attrs models.SignAttributes) models.CategoryResult {
	res := models.CategoryResult{
		Category:     cat.Name,
		Input:        input,
		Level:        models.OK,
		RulesFound:   !rules.Empty(),
		Alternatives: alternatives(cat, attrs),
	}

	var why []string
	seen := map[string]bool{}
	for _, tok := range Tokenize(input) {
		v := Match(tok, rules)
		res.Verdicts = append(res.Verdicts, v)
		switch v.Level {
		case models.Strong:
			res.StrongHits++
		case models.Mild:
			res.MildHits++
		}
		if v.Term != "" && !seen[v.Term] {
			seen[v.Term] = true
			why = append(why, v.Term)
		}
	}

	switch {
	case res.StrongHits > 0:
		res.Level = models.Strong
	case res.MildHits > 0:
		res.Level = models.Mild
	}
	res.Why = strings.Join(why, ", ")
	res.Remedies = Remedies(cat.Name, res.Level)
	return res
}

// alternatives joins the sign's supportive columns for cat, skipping a
// second column already contained in the first.
func alternatives(cat Category, attrs models.SignAttributes) string {
	var out string
	for i, col := range cat.RemedyColumns {
		v := attrs.Field(col)
		if v == "" {
			continue
		}
		if i > 0 && strings.Contains(out, v) {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += v
	}
	return out
}

// Run evaluates every category for sign. inputs is keyed by category name;
// a category without input is reported as OK.
func Run(tables *workbook.Tables, sign string, inputs map[string]string) []models.CategoryResult {
	var attrs models.SignAttributes
	if tables != nil {
		attrs, _ = tables.Attributes(sign)
	}

	results := make([]models.CategoryResult, 0, len(categories))
	for _, cat := range categories {
		results = append(results, Evaluate(cat, inputs[cat.Name], RulesFor(tables, sign, cat), attrs))
	}
	return results
}
