package ai

import "strings"

// Prompt template keys. The prompt store resolves each key to a template,
// either a built-in default below or an override from prompts.yaml.
const (
	PromptCareerSystem              = "career.system"
	PromptCareerGenerate            = "career.generate"
	PromptCareerGenerateWithOffer   = "career.generate_with_offer"
	PromptCareerGenerateFromCV      = "career.generate_from_cv"
	PromptCareerGenerateFromCVOffer = "career.generate_from_cv_with_offer"
	PromptCareerStructuredFormat    = "career.structured_format"
	PromptCareerRefine              = "career.refine"
	PromptCareerRefineStructured    = "career.refine_structured"
	PromptProfileSystem             = "profile.system"
	PromptProfileExtract            = "profile.extract"
	PromptAnalysisSystem            = "analysis.system"
	PromptAnalysisCVVsOffer         = "analysis.cv_vs_offer"
	PromptRecruiterSystem           = "recruiter.system"
	PromptRecruiterGenerateRef      = "recruiter.generate_reference"
	PromptRecruiterRefineRef        = "recruiter.refine_reference"
	PromptRecruiterCompare          = "recruiter.compare_candidate"
	PromptQuizSystem                = "quiz.system"
	PromptQuizGenerate              = "quiz.generate"
	PromptQuizEvaluate              = "quiz.evaluate"
)

// RenderPrompt substitutes {name} placeholders in a template. Unknown
// placeholders are left in place so a broken override is visible in the
// rendered prompt rather than silently dropped.
func RenderPrompt(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// DefaultPrompts provides the built-in prompt templates, keyed by the
// constants above. Generated documents are in French, which is why the
// response section headings are French too.
var DefaultPrompts = map[string]string{
	PromptCareerSystem: `Tu es un expert en recrutement et en rédaction de documents de candidature.
Tes principes fondamentaux :
- Ne jamais inventer, exagérer ou déformer des compétences ou expériences
- Chaque information doit provenir directement des éléments fournis
- Rédiger des documents professionnels, clairs et percutants en français`,

	PromptCareerGenerate: `À partir du profil suivant, rédige un CV complet et une lettre de motivation générique.

Profil du candidat :
{profile}

Réponds EXACTEMENT dans ce format :

## CV
(le CV complet ici)

## Lettre de motivation
(la lettre de motivation ici)

## Suggestions
(3 à 5 suggestions concrètes pour améliorer la candidature)`,

	PromptCareerGenerateWithOffer: `À partir du profil suivant, rédige un CV et une lettre de motivation adaptés à l'offre d'emploi ci-dessous. Mets en avant les compétences et expériences du profil les plus pertinentes pour l'offre, sans rien inventer.

Profil du candidat :
{profile}

Offre d'emploi visée :
{offer}

Réponds EXACTEMENT dans ce format :

## CV
(le CV complet ici)

## Lettre de motivation
(la lettre de motivation ici)

## Suggestions
(3 à 5 suggestions concrètes pour améliorer la candidature par rapport à cette offre)`,

	PromptCareerGenerateFromCV: `Voici le contenu brut d'un CV existant. Réécris-le en un CV professionnel bien structuré et rédige une lettre de motivation générique cohérente avec ce parcours. N'invente aucune information absente du CV d'origine.

CV existant :
{cv}

Réponds EXACTEMENT dans ce format :

## CV
(le CV réécrit ici)

## Lettre de motivation
(la lettre de motivation ici)

## Suggestions
(3 à 5 suggestions concrètes pour améliorer la candidature)`,

	PromptCareerGenerateFromCVOffer: `Voici le contenu brut d'un CV existant et une offre d'emploi. Réécris le CV en le ciblant sur cette offre et rédige une lettre de motivation adaptée. Mets en avant les éléments du CV les plus pertinents pour l'offre, sans rien inventer.

CV existant :
{cv}

Offre d'emploi visée :
{offer}

Réponds EXACTEMENT dans ce format :

## CV
(le CV réécrit ici)

## Lettre de motivation
(la lettre de motivation ici)

## Suggestions
(3 à 5 suggestions concrètes pour améliorer la candidature par rapport à cette offre)`,

	PromptCareerStructuredFormat: `

IMPORTANT : au lieu des sections ## CV et ## Lettre de motivation en texte libre, réponds avec des sections JSON structurées :

## CV_JSON
{"basics":{"name":"...","title":"...","email":"...","phone":"...","location":"...","summary":"..."},"work":[{"company":"...","position":"...","startDate":"...","endDate":"...","highlights":["..."]}],"education":[{"institution":"...","area":"...","studyType":"...","startDate":"...","endDate":"..."}],"skills":[{"name":"...","keywords":["..."]}],"languages":[{"language":"...","fluency":"..."}]}

## LETTRE_JSON
{"recipient":"...","opening":"...","body":["..."],"closing":"...","signature":"..."}

La section ## Suggestions reste en texte libre.`,

	PromptCareerRefine: `Voici un CV et une lettre de motivation existants, ainsi qu'une instruction de modification. Applique UNIQUEMENT la modification demandée et renvoie les documents complets mis à jour. Ne change rien d'autre.

CV actuel :
{cv}

Lettre de motivation actuelle :
{coverLetter}

Instruction :
{instruction}

Réponds EXACTEMENT dans ce format :

## CV
(le CV complet mis à jour)

## Lettre de motivation
(la lettre de motivation complète mise à jour)

## Suggestions
(suggestions mises à jour si pertinent)`,

	PromptCareerRefineStructured: `Voici un CV et une lettre de motivation existants au format JSON, ainsi qu'une instruction de modification. Applique UNIQUEMENT la modification demandée et renvoie les documents JSON complets mis à jour, avec le même schéma. Ne change rien d'autre.

CV actuel (JSON) :
{cv}

Lettre de motivation actuelle (JSON) :
{coverLetter}

Instruction :
{instruction}

Réponds EXACTEMENT dans ce format :

## CV_JSON
(le CV JSON complet mis à jour)

## LETTRE_JSON
(la lettre JSON complète mise à jour)

## Suggestions
(suggestions mises à jour si pertinent)`,

	PromptProfileSystem: `Tu es un extracteur de données strict. Tu réponds UNIQUEMENT avec du JSON valide, sans texte avant ou après, sans bloc de code markdown.`,

	PromptProfileExtract: `Extrais un profil structuré du CV suivant. Réponds uniquement avec un objet JSON respectant exactement ce schéma (utilise des chaînes vides ou des tableaux vides pour les informations absentes, n'invente rien) :

{"basics":{"name":"","title":"","email":"","phone":"","location":"","summary":""},"work":[{"company":"","position":"","startDate":"","endDate":"","highlights":[]}],"education":[{"institution":"","area":"","studyType":"","startDate":"","endDate":""}],"skills":[{"name":"","keywords":[]}],"languages":[{"language":"","fluency":""}],"yearsOfExperience":0}

CV :
{cv}`,

	PromptAnalysisSystem: `Tu es un analyste RH rigoureux. Tu évalues l'adéquation entre des candidats et des postes de manière factuelle et chiffrée. Tu réponds UNIQUEMENT avec du JSON valide, sans texte avant ou après.`,

	PromptAnalysisCVVsOffer: `Évalue l'adéquation entre le CV et l'offre d'emploi ci-dessous. Note chaque catégorie sur 100 (score) et pondère son importance sur 100 (weight). Pour chaque compétence attendue, "status" vaut "match", "partial" ou "missing". Réponds uniquement avec un objet JSON respectant exactement ce schéma :

{"overallScore":0,"categories":[{"name":"","score":0,"weight":0,"details":""}],"skillsMatch":[{"skill":"","status":"match","detail":""}],"experienceMatch":{"requiredYears":0,"candidateYears":0,"relevantExperiences":[""],"gaps":[""]},"strengths":[""],"weaknesses":[""],"recommendations":[""],"globalFeedback":""}

CV :
{cv}

Offre d'emploi :
{offer}`,

	PromptRecruiterSystem: `Tu es un consultant en recrutement. Tu aides les recruteurs à définir le profil idéal pour un poste et à évaluer des candidats par rapport à ce profil de référence.`,

	PromptRecruiterGenerateRef: `À partir de la description de poste suivante, rédige le CV de référence du candidat idéal pour ce poste. Ce document sert de profil cible pour comparer les candidatures réelles.

Description du poste :
{offer}

Réponds EXACTEMENT dans ce format :

## CV
(le CV du candidat idéal ici)`,

	PromptRecruiterRefineRef: `Voici le CV de référence actuel d'un poste et une instruction de modification. Applique UNIQUEMENT la modification demandée et renvoie le CV de référence complet mis à jour.

CV de référence actuel :
{cv}

Instruction :
{instruction}

Réponds EXACTEMENT dans ce format :

## CV
(le CV de référence complet mis à jour)`,

	PromptRecruiterCompare: `Compare le profil d'un candidat au profil de référence du poste. Note chaque catégorie sur 100 (score) et pondère son importance sur 100 (weight). Pour chaque compétence attendue, "status" vaut "match", "partial" ou "missing". Réponds uniquement avec un objet JSON respectant exactement ce schéma :

{"overallScore":0,"categories":[{"name":"","score":0,"weight":0,"details":""}],"skillsMatch":[{"skill":"","status":"match","detail":""}],"experienceMatch":{"requiredYears":0,"candidateYears":0,"relevantExperiences":[""],"gaps":[""]},"strengths":[""],"weaknesses":[""],"recommendations":[""],"globalFeedback":""}

Profil de référence du poste :
{reference}

Profil du candidat :
{candidate}`,

	PromptQuizSystem: `Tu es un formateur technique. Tu conçois des quiz d'évaluation pertinents et tu corriges les réponses de manière juste et pédagogique. Tu réponds UNIQUEMENT avec du JSON valide, sans texte avant ou après.`,

	PromptQuizGenerate: `Génère un quiz d'évaluation pour le contexte suivant. Mélange des questions à choix multiples ("qcm"), des questions ouvertes ("open") et des cas pratiques ("practical"). Pour les QCM, "correctAnswer" est l'index de la bonne option. Réponds uniquement avec un objet JSON respectant exactement ce schéma :

{"title":"","description":"","questions":[{"type":"qcm","question":"","options":["","","",""],"correctAnswer":0,"points":0,"context":""},{"type":"open","question":"","points":0},{"type":"practical","question":"","points":0,"context":""}]}

Contexte :
{context}

Nombre de questions souhaité : {count}`,

	PromptQuizEvaluate: `Corrige les réponses suivantes à un quiz. Pour chaque question, attribue les points obtenus ("earned", entre 0 et le barème "max"), indique si la réponse est correcte et donne un retour bref. Réponds uniquement avec un objet JSON respectant exactement ce schéma :

{"totalScore":0,"maxScore":0,"scores":[{"questionId":"","earned":0,"max":0,"correct":true,"feedback":""}],"strengths":[""],"improvements":[""],"globalFeedback":""}

Questions et réponses :
{answers}`,
}
