package types

import "time"

// DocumentFormat identifies how generated documents are encoded. The generation
// prompt changed over time, so both encodings remain readable.
type DocumentFormat string

const (
	FormatFreeText   DocumentFormat = "free_text"
	FormatStructured DocumentFormat = "structured"
)

// ProfileBasics holds applicant identity and contact information
type ProfileBasics struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
}

// WorkEntry represents one professional experience
type WorkEntry struct {
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

// EducationEntry represents one education record
type EducationEntry struct {
	Institution string `json:"institution"`
	Area        string `json:"area"`
	StudyType   string `json:"studyType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// SkillGroup is a named skill with related keywords
type SkillGroup struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// LanguageEntry represents one spoken language and fluency level
type LanguageEntry struct {
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
}

// StructuredProfile is the canonical structured representation of an applicant,
// produced by the profile extractor or generated as a reference profile.
type StructuredProfile struct {
	Basics            ProfileBasics    `json:"basics"`
	Work              []WorkEntry      `json:"work"`
	Education         []EducationEntry `json:"education"`
	Skills            []SkillGroup     `json:"skills"`
	Languages         []LanguageEntry  `json:"languages"`
	YearsOfExperience float64          `json:"yearsOfExperience"`
}

// ProfileFields are the discrete form fields a user can submit instead of a
// resume document.
type ProfileFields struct {
	Name        string `json:"name"`
	Education   string `json:"education"`
	Experience  string `json:"experience"`
	Skills      string `json:"skills"`
	TargetRole  string `json:"targetRole"`
	CustomTitle string `json:"customTitle,omitempty"`
}

// HasContent reports whether at least one substantive field was provided.
func (p ProfileFields) HasContent() bool {
	return p.Education != "" || p.Experience != "" || p.Skills != "" || p.TargetRole != ""
}

// GenerationArtifact is one persisted generation result: a CV, a cover letter
// and free-text suggestions. CV and CoverLetter are opaque strings; their
// internal shape depends on Format.
type GenerationArtifact struct {
	ID               string             `json:"id"`
	OwnerID          string             `json:"ownerId"`
	SourceFields     ProfileFields      `json:"sourceFields"`
	SourceProfile    *StructuredProfile `json:"sourceProfile,omitempty"`
	SourceResumeText string             `json:"sourceResumeText,omitempty"`
	TargetOfferText  string             `json:"targetOfferText,omitempty"`
	CV               string             `json:"cv"`
	CoverLetter      string             `json:"coverLetter"`
	Suggestions      string             `json:"suggestions"`
	Format           DocumentFormat     `json:"format"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// PostingStatus is the lifecycle state of a job posting
type PostingStatus string

const (
	PostingDraft     PostingStatus = "draft"
	PostingPublished PostingStatus = "published"
)

// JobPosting is a recruiter-owned job offer with a synthetic reference profile
// describing the ideal candidate.
type JobPosting struct {
	ID               string             `json:"id"`
	OwnerID          string             `json:"ownerId"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Skills           string             `json:"skills"`
	ReferenceCV      string             `json:"referenceCv,omitempty"`
	ReferenceProfile *StructuredProfile `json:"referenceProfile,omitempty"`
	Status           PostingStatus      `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Application is one applicant's submission to a posting. At most one exists
// per (JobID, ApplicantID) pair.
type Application struct {
	ID               string             `json:"id"`
	JobID            string             `json:"jobId"`
	ApplicantID      string             `json:"applicantId"`
	ResumeText       string             `json:"resumeText"`
	ExtractedProfile *StructuredProfile `json:"extractedProfile,omitempty"`
	Analysis         *FitAnalysis       `json:"analysis,omitempty"`
	Score            *int               `json:"score,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// FitCategory is one weighted scoring dimension in a fit analysis
type FitCategory struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Weight  int    `json:"weight"`
	Details string `json:"details"`
}

// SkillMatch describes how one required skill maps to the candidate
type SkillMatch struct {
	Skill  string `json:"skill"`
	Status string `json:"status"` // "match", "partial" or "missing"
	Detail string `json:"detail"`
}

// ExperienceMatch compares required and candidate experience
type ExperienceMatch struct {
	RequiredYears       int      `json:"requiredYears"`
	CandidateYears      int      `json:"candidateYears"`
	RelevantExperiences []string `json:"relevantExperiences"`
	Gaps                []string `json:"gaps"`
}

// FitAnalysis is the rubric-scored comparison between two profiles or between
// a resume and an offer. All numeric fields are integers after normalization.
type FitAnalysis struct {
	OverallScore    int             `json:"overallScore"`
	Categories      []FitCategory   `json:"categories"`
	SkillsMatch     []SkillMatch    `json:"skillsMatch"`
	ExperienceMatch ExperienceMatch `json:"experienceMatch"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	Recommendations []string        `json:"recommendations"`
	GlobalFeedback  string          `json:"globalFeedback"`
}

// AnalysisRecord is a persisted resume-vs-offer analysis
type AnalysisRecord struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"ownerId"`
	ResumeText   string       `json:"resumeText"`
	OfferText    string       `json:"offerText"`
	Analysis     *FitAnalysis `json:"analysis"`
	OverallScore int          `json:"overallScore"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// QuestionType classifies quiz questions
type QuestionType string

const (
	QuestionChoice    QuestionType = "qcm"
	QuestionOpen      QuestionType = "open"
	QuestionPractical QuestionType = "practical"
)

// QuizQuestion is one generated question. CorrectAnswer is the option index
// for choice questions and nil otherwise.
type QuizQuestion struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer *int         `json:"correctAnswer,omitempty"`
	Points        int          `json:"points"`
	Context       string       `json:"context,omitempty"`
}

// Quiz is a generated technical question set
type Quiz struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuizQuestion `json:"questions"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// QuizAnswer is one submitted answer, paired to a question by position
type QuizAnswer struct {
	QuestionID string `json:"questionId,omitempty"`
	Answer     string `json:"answer"`
}

// QuestionScore is the graded result for one question
type QuestionScore struct {
	QuestionID string `json:"questionId"`
	Earned     int    `json:"earned"`
	Max        int    `json:"max"`
	Correct    bool   `json:"correct"`
	Feedback   string `json:"feedback"`
}

// QuizEvaluation is the normalized grading result for a whole submission
type QuizEvaluation struct {
	TotalScore     int             `json:"totalScore"`
	MaxScore       int             `json:"maxScore"`
	Percentage     int             `json:"percentage"`
	Scores         []QuestionScore `json:"scores"`
	Strengths      []string        `json:"strengths"`
	Improvements   []string        `json:"improvements"`
	GlobalFeedback string          `json:"globalFeedback"`
}

// QuizResponse is one persisted graded submission
type QuizResponse struct {
	ID         string          `json:"id"`
	QuizID     string          `json:"quizId"`
	OwnerID    string          `json:"ownerId"`
	Answers    []QuizAnswer    `json:"answers"`
	Score      int             `json:"score"`
	MaxScore   int             `json:"maxScore"`
	Evaluation *QuizEvaluation `json:"evaluation"`
	CreatedAt  time.Time       `json:"createdAt"`
}
