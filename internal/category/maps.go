package category

// Main branch labels.
const (
	Professional   = "professional"
	Hobby          = "hobby"
	ExProfessional = "ex-professional"
	Adventurer     = "adventurer"
	Student        = "student"
)

// MainBranch simplifies the "which of the following describes you" answer.
var MainBranch = New("main_branch", map[string]string{
	"I am a developer by profession":                                                Professional,
	"I code primarily as a hobby":                                                   Hobby,
	"I used to be a developer by profession, but no longer am":                      ExProfessional,
	"I am not primarily a developer, but I write code sometimes as part of my work": Adventurer,
	"I am a student who is learning to code":                                        Student,
}, NotInformed, NotInformed)

// EdLevel simplifies the highest completed education answer. Both straight
// and typographic apostrophes appear across survey years.
var EdLevel = New("ed_level", map[string]string{
	"Bachelor’s degree (B.A., B.S., B.Eng., etc.)":                                      "bachelor",
	"Bachelor's degree (B.A., B.S., B.Eng., etc.)":                                      "bachelor",
	"Master’s degree (M.A., M.S., M.Eng., MBA, etc.)":                                   "master",
	"Master's degree (M.A., M.S., M.Eng., MBA, etc.)":                                   "master",
	"Other doctoral degree (Ph.D., Ed.D., etc.)":                                        "doctorate",
	"Professional degree (JD, MD, etc.)":                                                "professional_degree",
	"Associate degree (A.A., A.S., etc.)":                                               "associate",
	"Some college/university study without earning a degree":                            "some_college",
	"Secondary school (e.g. American high school, German Realschule or Gymnasium, etc.)": "secondary",
	"Primary/elementary school":                                                         "primary",
	"Something else":                                                                    Other,
}, Other, NotInformed)

// DevType simplifies a single developer-type token; split multi-answer cells
// with dataset.Table.Explode first.
var DevType = New("dev_type", map[string]string{
	"Developer, full-stack":                         "fullstack",
	"Developer, back-end":                           "backend",
	"Developer, front-end":                          "frontend",
	"Developer, desktop or enterprise applications": "desktop",
	"Developer, mobile":                             "mobile",
	"Developer, embedded applications or devices":   "embedded",
	"Developer, game or graphics":                   "game",
	"Developer, QA or test":                         "qa",
	"DevOps specialist":                             "devops",
	"Engineer, site reliability":                    "devops",
	"System administrator":                          "sysadmin",
	"Database administrator":                        "data",
	"Data scientist or machine learning specialist": "data",
	"Data or business analyst":                      "data",
	"Engineer, data":                                "data",
	"Academic researcher":                           "research",
	"Scientist":                                     "research",
	"Engineering manager":                           "management",
	"Product manager":                               "management",
	"Senior Executive (C-Suite, VP, etc.)":          "management",
	"Designer":                                      "design",
	"Educator":                                      "education",
	"Student":                                       Student,
}, Other, NotInformed)

// Free-form dimensions keep the answer text as their label.
var (
	Country = Passthrough("country", NotInformed)
	OrgSize = Passthrough("org_size", NotInformed)
	OpSys   = Passthrough("op_sys", NotInformed)
	Age     = Passthrough("age", NotInformed)
)
