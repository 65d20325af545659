package stats

// Buzzwords are generic resume filler terms.
var Buzzwords = []string{
	"results-driven", "team player", "detail-oriented", "synergy", "go-getter",
	"self-starter", "hard-working", "motivated", "passionate", "dynamic",
	"innovative", "proactive", "strategic", "leverage", "think outside the box",
	"track record", "best of breed", "value add", "thought leader", "goal-oriented",
}

// Skills are common technical and professional skills.
var Skills = []string{
	"machine learning", "data analysis", "project management", "cloud computing",
	"sql", "excel", "aws", "azure", "docker", "kubernetes", "git", "linux",
	"tableau", "power bi", "agile", "scrum", "devops", "rest", "microservices",
	"tensorflow", "pandas", "spark", "hadoop", "ci/cd",
}

// ProgrammingLanguages are language names; some carry symbols (c++, c#).
var ProgrammingLanguages = []string{
	"python", "java", "javascript", "typescript", "c++", "c#", "golang", "rust",
	"ruby", "php", "swift", "kotlin", "scala", "perl", "matlab", "haskell",
	".net", "objective-c", "bash",
}

// SoftSkills are interpersonal skills.
var SoftSkills = []string{
	"communication", "leadership", "teamwork", "problem solving", "problem-solving",
	"time management", "adaptability", "creativity", "critical thinking",
	"collaboration", "empathy", "negotiation", "mentoring", "presentation",
}
