package dedup

// DefaultTopics is the topic pool shipped with LeadMesh, partitioned by
// practice-area category. Titles reference the dynamic placeholders the
// Selector substitutes at selection time.
var DefaultTopics = []TopicRecord{
	{
		Title:    "What {{.Location}} Families Should Know About Immigration Law in {{.Year}}",
		Keywords: []string{"immigration", "visa", "family"},
		Category: "immigration",
		Shape:    ShapeGuide,
	},
	{
		Title:    "Top 7 Questions About Green Card Renewals This {{.Season}}",
		Keywords: []string{"green card", "renewal"},
		Category: "immigration",
		Shape:    ShapeListicle,
	},
	{
		Title:    "Citizenship Interview Checklist for {{.Month}} Applicants",
		Keywords: []string{"citizenship", "interview"},
		Category: "immigration",
		Shape:    ShapeChecklist,
	},
	{
		Title:    "What to Do After a Car Accident in {{.Location}}",
		Keywords: []string{"accident", "injury", "car"},
		Category: "personal_injury",
		Shape:    ShapeGuide,
	},
	{
		Title:    "5 Mistakes That Hurt Your Injury Claim in {{.Year}}",
		Keywords: []string{"injury", "claim", "insurance"},
		Category: "personal_injury",
		Shape:    ShapeListicle,
	},
	{
		Title:    "Slip and Fall Claims: Your Questions Answered",
		Keywords: []string{"slip", "fall", "premises"},
		Category: "personal_injury",
		Shape:    ShapeQA,
	},
	{
		Title:    "How Custody Decisions Work in {{.Location}} Courts",
		Keywords: []string{"custody", "children", "court"},
		Category: "family_law",
		Shape:    ShapeGuide,
	},
	{
		Title:    "Divorce Filing Checklist for {{.Season}} {{.Year}}",
		Keywords: []string{"divorce", "filing"},
		Category: "family_law",
		Shape:    ShapeChecklist,
	},
	{
		Title:    "Child Support Updates {{.Location}} Parents Should Watch in {{.Year}}",
		Keywords: []string{"child support", "updates"},
		Category: "family_law",
		Shape:    ShapeNews,
	},
	{
		Title:    "Your Rights During a Traffic Stop in {{.Location}}",
		Keywords: []string{"rights", "traffic", "police"},
		Category: "criminal_defense",
		Shape:    ShapeGuide,
	},
	{
		Title:    "DUI Penalties in {{.Year}}: What Changed",
		Keywords: []string{"dui", "penalties"},
		Category: "criminal_defense",
		Shape:    ShapeNews,
	},
	{
		Title:    "Expungement Questions Answered for {{.Month}} {{.Year}}",
		Keywords: []string{"expungement", "record"},
		Category: "criminal_defense",
		Shape:    ShapeQA,
	},
}
