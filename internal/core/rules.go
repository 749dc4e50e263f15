package core

import "strings"

// RuleOutcome is the result of the rule engine: either Resolved or
// NeedsExternalCheck
type RuleOutcome interface {
	ruleOutcome()
}

// Resolved is a concrete category decided by a keyword rule
type Resolved struct {
	Category   string
	Confidence int
	Reason     string
}

// NeedsExternalCheck means no rule matched and the domain should be
// checked by the entertainment classifier
type NeedsExternalCheck struct {
	Confidence int
	Reason     string
}

func (Resolved) ruleOutcome()           {}
func (NeedsExternalCheck) ruleOutcome() {}

// Keyword groups
var (
	FinanceKeywords = []string{
		"invoice", "payment", "receipt", "credit card", "loan", "emi",
		"bank", "statement", "transaction", "upi", "debit", "credit",
	}
	BillKeywords      = []string{"bill", "billing", "electricity", "gas", "water", "mobile bill"}
	PromotionKeywords = []string{
		"sale", "discount", "offer", "deal", "limited time",
		"coupon", "free", "clearance",
	}
	CareerKeywords  = []string{"job", "hiring", "interview", "recruiter", "opportunity"}
	WorkKeywords    = []string{"meeting", "update", "deadline", "project"}
	TravelKeywords  = []string{"flight", "ticket", "booking", "itinerary"}
	SupportKeywords = []string{"support", "helpdesk", "noreply@support"}
	UrgentKeywords  = []string{"urgent", "alert", "action required"}

	NewsletterHints    = []string{"newsletter", "digest"}
	EntertainmentHints = []string{
		"netflix", "hotstar", "spotify", "prime", "youtube",
		"instagram", "facebook", "reddit", "pinterest",
	}

	// CommercialGmailSenders are businesses known to mail from gmail.com
	// addresses; they are never treated as personal
	CommercialGmailSenders = []string{"amazon", "flipkart", "zomato", "swiggy", "ola"}
)

const personalSuffix = "@gmail.com"

type rule struct {
	category   string
	confidence int
	reason     string
	matches    func(subject, sender string) bool
}

// RuleEngine evaluates the ordered keyword rules; the first match wins
type RuleEngine struct {
	rules []rule
}

// NewRuleEngine creates the rule engine with the built-in rule order
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{
		rules: []rule{
			{CategoryFinance, 90, "Rule-based: Finance keywords matched", inEither(FinanceKeywords)},
			{CategoryBills, 90, "Rule-based: Bill keywords matched", inEither(BillKeywords)},
			{CategoryPromotions, 85, "Rule-based: Promotion keywords matched", inSubject(PromotionKeywords)},
			{CategoryCareer, 85, "Rule-based: Career keywords matched", inSubject(CareerKeywords)},
			{CategoryWork, 80, "Rule-based: Work keyword matched", inSubject(WorkKeywords)},
			{CategoryTravel, 85, "Rule-based: Travel keyword matched", inSubject(TravelKeywords)},
			{CategorySupport, 70, "Rule-based: Support sender", inSender(SupportKeywords)},
			{CategoryUrgent, 90, "Rule-based: Urgent keyword", inSubject(UrgentKeywords)},
			{CategoryNewsletter, 60, "Rule-based: Newsletter sender detected", inSender(NewsletterHints)},
			{CategoryPersonal, 50, "Rule-based: Gmail personal sender", personalSender},
			{CategoryEntertainment, 95, "Rule-based: Known entertainment platform", inSender(EntertainmentHints)},
		},
	}
}

// Classify runs the rules against the subject and sender address
func (e *RuleEngine) Classify(subject, sender string) RuleOutcome {
	subject = strings.ToLower(subject)
	sender = strings.ToLower(sender)

	for _, r := range e.rules {
		if r.matches(subject, sender) {
			return Resolved{Category: r.category, Confidence: r.confidence, Reason: r.reason}
		}
	}

	return NeedsExternalCheck{
		Confidence: 40,
		Reason:     "Possible entertainment domain, AI check needed",
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func inSubject(keywords []string) func(string, string) bool {
	return func(subject, _ string) bool { return containsAny(subject, keywords) }
}

func inSender(keywords []string) func(string, string) bool {
	return func(_, sender string) bool { return containsAny(sender, keywords) }
}

func inEither(keywords []string) func(string, string) bool {
	return func(subject, sender string) bool {
		return containsAny(subject, keywords) || containsAny(sender, keywords)
	}
}

func personalSender(_, sender string) bool {
	return strings.HasSuffix(sender, personalSuffix) && !containsAny(sender, CommercialGmailSenders)
}
