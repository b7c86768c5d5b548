package rules

// Default returns the built-in rule table.
func Default() Table {
	return Table{
		FreeHostingPlatforms: []string{
			"blogspot", "wordpress.com", "wix", "weebly", "squarespace",
			"webnode", "jimdo", "godaddy", "000webhost",
		},
		LegitimateJobBoards: []string{
			"linkedin.com", "indeed.com", "glassdoor.com", "monster.com",
			"ziprecruiter.com", "careerbuilder.com", "simplyhired.com", "dice.com",
			"stackoverflow.com", "angel.co", "upwork.com", "freelancer.com", "flexjobs.com",
		},
		SalaryExemptBoards: []string{"linkedin.com", "indeed.com", "glassdoor.com"},
		NoEmailPlatforms:   []string{"linkedin.com"},
		URLShorteners: []string{
			"bit.ly", "tinyurl", "t.co", "short.link", "tiny.cc", "goo.gl",
		},
		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".click", ".download", ".loan", ".top",
		},
		SuspiciousDomainKeywords: []string{"temp", "test", "staging", "free"},

		FreeEmailDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com",
			"mail.com", "protonmail.com", "yandex.com", "icloud.com", "live.com",
			"msn.com", "comcast.net", "verizon.net",
		},
		CorporateSuffixes: []string{"inc", "corp", "llc", "ltd"},
		CompanySuffixes: []string{
			"incorporated", "corporation", "company", "limited",
			"inc", "corp", "llc", "ltd", "co", "plc", "gmbh",
		},
		GenericLocalParts: []string{"noreply", "no-reply", "temp", "admin", "info", "contact"},

		CriticalScamPhrases: []string{
			"wire transfer", "western union", "moneygram", "money transfer", "send money",
			"transfer funds", "pyramid", "mlm", "multi-level marketing", "multi level marketing",
			"quick money", "easy money", "fast money", "get rich quick",
			"processing fee", "training fee", "startup fee", "start-up fee",
			"activation fee", "registration fee", "upfront fee",
		},
		EarningsClaimPatterns: []string{
			`(?:earn|make)\s+(?:up to\s+)?\$\d[\d,]*\+?\s*(?:/|per|a|each)\s*(?:day|week)\b`,
			`\$\d[\d,]*\+?\s+(?:daily|weekly)\b`,
		},
		HighPressurePhrases: []string{
			"urgent hiring", "urgently hiring", "immediate start", "start immediately",
			"no interview required", "no interview needed", "cash only", "pay in advance",
			"act now", "limited time", "exclusive opportunity", "don't miss out",
		},
		BuzzwordPhrases: []string{
			"work from home", "remote", "flexible schedule", "flexible hours",
			"part time", "part-time", "data entry", "customer service",
			"no experience required", "no experience needed", "be your own boss",
			"financial freedom", "home based", "home-based",
		},
		HomophonePatterns: []string{
			`\btheir (?:is|are|was|were)\b|\bthere (?:own|job|team|company|skills)\b|\bthey're (?:own|job|team|company)\b`,
			`\byour (?:welcome|going|gonna|hired|the best)\b|\byou're (?:own|job|resume|application|team)\b`,
			`\bto (?:much|many|late)\b|\b(?:too|two) (?:apply|work|join|be)\b`,
		},

		VagueTitleWords: []string{"data entry", "assistant", "representative", "clerk", "operator"},
		SeniorityQualifiers: []string{
			"senior", "sr", "junior", "jr", "lead", "principal", "staff", "manager",
			"director", "head", "chief", "supervisor", "specialist", "associate", "intern",
		},
		TemplatePhrases: []string{"lorem ipsum", "placeholder", "template", "example"},

		AuthWallPhrases: []string{
			"sign in", "sign-in", "log in", "login", "sign up", "join now",
			"create an account", "to view this job", "authwall", "members only",
		},
		TruncationPatterns: []string{
			`(?:\.\.\.|…)\s*$`,
			`,\s*$`,
			`\b(?:see|show|read) more\s*$`,
		},
		NavigationWords: []string{
			"home", "jobs", "job", "menu", "search", "login", "careers", "about",
			"contact", "back", "next", "previous", "skip", "to", "main", "content",
			"navigation", "sign", "in", "apply", "more", "results", "filter", "sort", "all",
		},
		CSSPatterns: []string{
			`[{}]`,
			`\b(?:color|background(?:-[a-z]+)?|margin(?:-[a-z]+)?|padding(?:-[a-z]+)?|border(?:-[a-z]+)?|display|width|height|text-(?:align|decoration|transform)|line-height|letter-spacing|opacity|z-index|overflow)\s*:\s*[^;]+;`,
			`\b\d+px\b`,
			`rgba?\(`,
			`!important`,
			`@media`,
			`font-(?:family|size|weight)`,
		},
		SectionWords: []string{"careers", "jobs", "opportunities", "openings", "hiring"},

		GenericBusinessBuzzwords: []string{
			"fast-paced", "fast paced", "dynamic", "team player", "self-starter", "self starter",
			"go-getter", "synergy", "detail-oriented", "detail oriented", "results-driven",
			"results driven", "passionate", "motivated", "hard-working", "hardworking",
			"wear many hats", "think outside the box", "excellent communication skills",
			"competitive salary", "growth opportunities", "exciting opportunity", "innovative",
		},
		VagueRequirementPhrases: []string{
			"various tasks", "other duties as assigned", "as needed", "miscellaneous",
			"general duties", "assist with", "help with", "support the team",
			"various responsibilities", "as required", "wide range of tasks",
		},
		AlwaysHiringPhrases: []string{
			"always hiring", "continuously hiring", "constantly hiring", "ongoing recruitment",
			"always looking for", "always accepting applications", "rolling basis",
			"talent pool", "future opportunities", "pipeline of candidates",
		},
		EntryLevelPhrases: []string{
			"entry level", "entry-level", "no experience", "recent graduate", "fresh graduate",
		},
		ExpertisePatterns: []string{
			`\b(?:[5-9]|[1-9]\d)\+?\s*(?:years?|yrs)\b`,
			`\b(?:extensive|proven|deep) (?:experience|expertise)\b`,
			`\bexpert[- ]level\b`,
		},
		SeniorTitleWords: []string{"senior", "sr", "lead", "principal", "staff", "head"},
		PerfectCandidatePhrases: []string{
			"perfect candidate", "ideal candidate will", "unicorn", "rockstar", "ninja",
			"superstar", "dream job", "once in a lifetime",
		},

		CommissionPhrases: []string{
			"commission only", "commission-only", "100% commission", "commission based",
			"commission-based", "straight commission",
		},
	}
}

// Builtin returns the compiled built-in table.
func Builtin() *Set {
	return MustCompile(Default())
}
