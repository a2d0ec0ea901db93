package dedup

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/leadmesh/leadmesh/internal/util"
	"github.com/leadmesh/leadmesh/logging"
)

// ContentShape tags the structural shape of a topic's eventual content.
type ContentShape string

const (
	// ShapeGuide is a long-form how-to piece.
	ShapeGuide ContentShape = "guide"
	// ShapeListicle is an enumerated list piece.
	ShapeListicle ContentShape = "listicle"
	// ShapeQA is a question-and-answer piece.
	ShapeQA ContentShape = "q_and_a"
	// ShapeNews is a timely update piece.
	ShapeNews ContentShape = "news"
	// ShapeChecklist is a step checklist piece.
	ShapeChecklist ContentShape = "checklist"
)

// TopicRecord is one reusable topic template. Title may reference the
// dynamic placeholders {{.Year}}, {{.Month}}, {{.Season}} and {{.Location}}.
type TopicRecord struct {
	Title    string
	Keywords []string
	Category string
	Shape    ContentShape
}

// Emitted is one previously produced title plus its category tag.
type Emitted struct {
	Title    string
	Category string
}

// Selection is the chosen topic with its rendered, history-unique title.
type Selection struct {
	Title    string
	Category string
	Keywords []string
	Shape    ContentShape
	Fallback bool
}

const (
	// historyWindow bounds how many recent emissions similarity is checked
	// against.
	historyWindow = 30
	// recentCategoryExclusions is how many of the most recent emissions have
	// their categories excluded from the draw.
	recentCategoryExclusions = 2
	// similarityThreshold rejects candidates whose word overlap with any
	// recent title exceeds it.
	similarityThreshold = 0.5
)

// Options holds configuration overrides passed to NewSelector.
type Options struct {
	// Locations feeds the {{.Location}} placeholder.
	Locations []string
	// Rand overrides the random source (tests).
	Rand *rand.Rand
	// Now overrides the clock (tests).
	Now func() time.Time
	// Logger receives selection telemetry.
	Logger logging.Logger
}

// Selector picks the next unique topic from category-partitioned pools.
// Selection is randomized: re-running with identical history can yield a
// different, still-unique result.
type Selector struct {
	pools     map[string][]TopicRecord
	locations []string
	rand      *rand.Rand
	now       func() time.Time
	logger    logging.Logger
}

// NewSelector constructs a Selector over the given templates.
func NewSelector(templates []TopicRecord, optFns ...func(o *Options)) *Selector {
	opts := Options{
		Locations: []string{"Houston", "Dallas", "Austin", "San Antonio"},
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:       time.Now,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	pools := make(map[string][]TopicRecord)
	for _, t := range templates {
		pools[t.Category] = append(pools[t.Category], t)
	}
	return &Selector{pools: pools, locations: opts.Locations, rand: opts.Rand, now: opts.Now, logger: opts.Logger}
}

// Select picks the next topic: it chooses a category outside those of the
// most recent emissions, shuffles that category's pool, and returns the first
// candidate whose rendered title is dissimilar from every recent title. When
// every template is rejected it falls back to the first template with a
// date-suffixed title, which forces uniqueness without re-checking
// similarity; selection therefore never fails on a non-empty pool.
func (s *Selector) Select(history []Emitted) (Selection, error) {
	if len(s.pools) == 0 {
		return Selection{}, fmt.Errorf("dedup: no topic templates configured")
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	category := s.chooseCategory(history)
	pool := make([]TopicRecord, len(s.pools[category]))
	copy(pool, s.pools[category])
	s.rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	recent := make([]string, len(history))
	for i, h := range history {
		recent[i] = normalize(h.Title)
	}

	for _, tmpl := range pool {
		title, err := s.render(tmpl.Title)
		if err != nil {
			s.logger.Warn("topic template failed to render", "title", tmpl.Title, "error", err)
			continue
		}
		if tooSimilar(normalize(title), recent) {
			continue
		}
		return Selection{Title: title, Category: tmpl.Category, Keywords: tmpl.Keywords, Shape: tmpl.Shape}, nil
	}

	// Every template collided with recent history; date-suffix the first one.
	tmpl := pool[0]
	title, err := s.render(tmpl.Title)
	if err != nil {
		title = tmpl.Title
	}
	title = fmt.Sprintf("%s (%s)", title, s.now().Format("January 2, 2006"))
	s.logger.Info("topic selection fell back to dated title", "category", category)
	return Selection{Title: title, Category: tmpl.Category, Keywords: tmpl.Keywords, Shape: tmpl.Shape, Fallback: true}, nil
}

// chooseCategory excludes the categories of the most recent emissions and
// draws uniformly from the remainder, or from the full set when exclusion
// would leave nothing.
func (s *Selector) chooseCategory(history []Emitted) string {
	excluded := map[string]bool{}
	for i := len(history) - 1; i >= 0 && i >= len(history)-recentCategoryExclusions; i-- {
		excluded[history[i].Category] = true
	}

	candidates := make([]string, 0, len(s.pools))
	all := make([]string, 0, len(s.pools))
	for cat := range s.pools {
		all = append(all, cat)
		if !excluded[cat] {
			candidates = append(candidates, cat)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}
	// Map iteration order is random but not uniform; sort before drawing so
	// the draw distribution depends only on the seeded source.
	sort.Strings(candidates)
	return candidates[s.rand.Intn(len(candidates))]
}

// render substitutes the dynamic placeholders into a title template.
func (s *Selector) render(title string) (string, error) {
	now := s.now()
	location := ""
	if len(s.locations) > 0 {
		location = s.locations[s.rand.Intn(len(s.locations))]
	}
	return util.RenderTemplate(title, map[string]any{
		"Year":     now.Year(),
		"Month":    now.Month().String(),
		"Season":   season(now.Month()),
		"Location": location,
	})
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// normalize lowercases a title and strips non-alphanumerics for comparison.
func normalize(title string) string {
	return strings.Join(strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(title), " ")), " ")
}

func tooSimilar(candidate string, recent []string) bool {
	for _, r := range recent {
		if similarity(candidate, r) > similarityThreshold {
			return true
		}
	}
	return false
}

// similarity is the count of shared words longer than three characters
// divided by the larger of the two word-set sizes.
func similarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	return float64(shared) / float64(larger)
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

// season maps a month to its northern-hemisphere season.
func season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}
