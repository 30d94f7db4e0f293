package analyze

import "github.com/hpungsan/cardex/internal/card"

// typeKeywords pairs a card type with the words that suggest it.
type typeKeywords struct {
	Type     card.Type
	Keywords []string
}

// categoryKeywords pairs a category label with its keyword list.
type categoryKeywords struct {
	Category string
	Keywords []string
}

// typeTable is ordered; ties in ClassifyType go to the earlier row.
var typeTable = []typeKeywords{
	{card.TypeConcept, []string{"concept", "definition", "theory", "principle", "framework", "model"}},
	{card.TypeAction, []string{"action", "step", "process", "procedure", "method", "technique", "strategy"}},
	{card.TypeQuote, []string{"quote", "saying", "proverb", "wisdom", "insight"}},
	{card.TypeChecklist, []string{"checklist", "list", "items", "tasks", "requirements", "criteria"}},
	{card.TypeMindmap, []string{"relationship", "connection", "link", "network", "system"}},
}

// categoryTable is ordered; ties in ClassifyCategory go to the earlier row.
// Keywords are lowercase and matched as substrings.
var categoryTable = []categoryKeywords{
	{"AI", []string{
		"ai", "artificial intelligence", "machine learning", "ml", "deep learning", "neural network",
		"algorithm", "automation", "chatbot", "gpt", "llm", "large language model", "nlp",
		"natural language processing", "computer vision", "robotics", "predictive analytics",
		"data science", "intelligent", "smart", "automated", "cognitive", "intelligence",
	}},
	{"Leadership", []string{
		"leadership", "leader", "vision", "inspire", "motivate", "empower", "mentor",
		"coach", "guide", "direct", "influence", "authority", "executive", "ceo", "manager",
	}},
	{"Management", []string{
		"management", "manager", "supervisor", "administrator", "director", "head",
		"oversight", "coordination", "supervision", "administration", "governance",
	}},
	{"Team Management", []string{
		"team", "collaboration", "cooperation", "group", "member", "colleague",
		"partnership", "alliance", "unity", "together", "collective", "synergy",
	}},
	{"People", []string{
		"people", "personnel", "staff", "employee", "individual", "human", "person",
		"workforce", "talent", "colleague", "team member", "stakeholder", "user",
	}},
	{"Organization", []string{
		"organization", "org", "organizational", "institution", "company", "corporation",
		"enterprise", "business", "firm", "agency", "department", "division", "unit",
	}},
	{"Operating Principles", []string{
		"operating principles", "principles", "values", "ethics", "standards", "guidelines",
		"policies", "procedures", "best practices", "methodology", "framework", "approach",
	}},
	{"Process", []string{
		"process", "workflow", "procedure", "method", "system", "approach", "methodology",
		"technique", "strategy", "tactic", "protocol", "routine", "operation",
	}},
	{"Architecture", []string{
		"architecture", "architectural", "design", "structure", "framework", "blueprint",
		"model", "pattern", "layout", "configuration", "infrastructure", "system design",
	}},
	{"Data", []string{
		"data", "information", "analytics", "metrics", "statistics", "insights", "intelligence",
		"reporting", "analysis", "measurement", "kpi", "dashboard", "database", "dataset",
	}},
	{"Technology", []string{
		"technology", "digital", "software", "hardware", "system", "platform",
		"application", "tool", "automation", "innovation", "development",
		"implementation", "integration", "maintenance", "upgrade",
	}},
	{"Communication", []string{
		"communication", "presentation", "speech", "talk", "discussion", "meeting",
		"conversation", "dialogue", "message", "feedback", "listen", "speak", "write",
		"email", "report", "documentation", "storytelling", "public speaking",
	}},
	{"Strategic Planning", []string{
		"strategy", "planning", "plan", "goal", "objective", "target", "mission",
		"vision", "roadmap", "blueprint", "framework", "approach", "methodology",
		"tactics", "initiative", "project", "program",
	}},
	{"Performance Management", []string{
		"performance", "evaluation", "assessment", "review", "feedback", "metrics",
		"kpi", "measurement", "analysis", "improvement", "optimization", "efficiency",
		"productivity", "quality", "excellence", "achievement", "results",
	}},
	{"Change Management", []string{
		"change", "transformation", "transition", "evolution", "adaptation",
		"innovation", "disruption", "modernization", "digitalization", "restructure",
		"reorganization", "improvement", "development", "growth",
	}},
	{"Decision Making", []string{
		"decision", "choice", "option", "alternative", "solution", "problem-solving",
		"analysis", "evaluation", "judgment", "conclusion", "determination",
		"resolve", "decide", "choose", "select", "prioritize",
	}},
	{"Conflict Resolution", []string{
		"conflict", "dispute", "disagreement", "resolution", "mediation", "negotiation",
		"compromise", "consensus", "agreement", "harmony", "reconciliation",
		"peace", "understanding", "tolerance", "respect",
	}},
	{"Time Management", []string{
		"time", "schedule", "deadline", "timeline", "prioritization", "organization",
		"efficiency", "productivity", "planning", "coordination", "management",
		"allocation", "optimization", "balance", "work-life",
	}},
	{"Financial Management", []string{
		"finance", "budget", "cost", "expense", "revenue", "profit", "investment",
		"financial", "economic", "monetary", "fiscal", "accounting", "audit",
		"forecasting", "planning", "analysis", "reporting",
	}},
	{"Customer Service", []string{
		"customer", "client", "service", "support", "satisfaction", "experience",
		"relationship", "engagement", "loyalty", "retention", "acquisition",
		"feedback", "complaint", "resolution", "excellence",
	}},
	{"Marketing", []string{
		"marketing", "brand", "advertising", "promotion", "campaign", "strategy",
		"market", "customer", "audience", "target", "message", "communication",
		"social media", "content", "analytics", "conversion",
	}},
	{"Human Resources", []string{
		"hr", "human resources", "recruitment", "hiring", "training", "development",
		"employee", "staff", "personnel", "workforce", "talent", "culture",
		"benefits", "compensation", "retention", "engagement",
	}},
	{"Operations", []string{
		"operations", "process", "workflow", "procedure", "system", "efficiency",
		"optimization", "streamline", "automation", "quality", "standards",
		"compliance", "safety", "risk", "management",
	}},
	{"Sales", []string{
		"sales", "revenue", "deal", "prospect", "client", "customer", "pitch",
		"negotiation", "closing", "relationship", "pipeline", "target",
		"quota", "commission", "performance", "growth",
	}},
}

// contextRule maps a fallback category to the terms that trigger it.
type contextRule struct {
	Category string
	Terms    []string
}

// contextRules are consulted in order when no category keyword matches.
var contextRules = []contextRule{
	{"Financial Management", []string{"$", "dollar", "cost", "budget"}},
	{"Communication", []string{"meeting", "presentation", "speak"}},
	{"Strategic Planning", []string{"goal", "objective", "target"}},
	{"Problem Solving", []string{"problem", "issue", "challenge"}},
	{"Learning & Development", []string{"learn", "study", "research"}},
	{"Customer Service", []string{"customer", "client", "user"}},
	{"Human Resources", []string{"employee", "staff", "hire"}},
	{"Sales", []string{"sale", "deal", "revenue"}},
	{"Marketing", []string{"market", "brand", "promotion"}},
	{"Operations", []string{"system", "process", "workflow"}},
	{"Technology", []string{"technology", "digital", "software"}},
}

// Categories returns the declared category labels in table order.
func Categories() []string {
	out := make([]string, len(categoryTable))
	for i, c := range categoryTable {
		out[i] = c.Category
	}
	return out
}
