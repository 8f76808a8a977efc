package shortlist

// Level is the three-step scale the scoring backend uses for confidence,
// ambiguity and reliability. The German values are part of the wire contract.
type Level string

const (
	LevelHoch    Level = "hoch"
	LevelMittel  Level = "mittel"
	LevelNiedrig Level = "niedrig"
)

type Status string

const (
	StatusOK                 Status = "ok"
	StatusNeedsClarification Status = "needs_clarification"
	StatusNoResult           Status = "no_result"
)

type TherapyArea string

const (
	AreaAugen        TherapyArea = "Augenerkrankungen"
	AreaHaut         TherapyArea = "Haut"
	AreaHerz         TherapyArea = "Herz-Kreislauf"
	AreaInfektionen  TherapyArea = "Infektionen"
	AreaAtmung       TherapyArea = "Atmung"
	AreaBlut         TherapyArea = "Blut/Blutbildend"
	AreaMuskel       TherapyArea = "Muskel-Skelett"
	AreaNervensystem TherapyArea = "Nervensystem"
	AreaUrogenital   TherapyArea = "Urogenital"
	AreaVerdauung    TherapyArea = "Verdauung"
	AreaOnkologie    TherapyArea = "Onkologie"
	AreaPsychische   TherapyArea = "Psychische"
	AreaStoffwechsel TherapyArea = "Stoffwechsel"
	AreaSonstiges    TherapyArea = "Sonstiges"
)

type Setting string

const (
	SettingAmbulant   Setting = "ambulant"
	SettingStationaer Setting = "stationär"
	SettingBeides     Setting = "beides"
	SettingUnklar     Setting = "unklar"
)

type Role string

const (
	RoleReplacement Role = "replacement"
	RoleAddOn       Role = "add-on"
	RoleMonotherapy Role = "monotherapy"
	RoleUnklar      Role = "unklar"
)

type Line string

const (
	Line1L      Line = "1L"
	Line2L      Line = "2L"
	LineSpaeter Line = "später"
	LineSwitch  Line = "switch"
	LineUnklar  Line = "unklar"
)

type ComparatorType string

const (
	ComparatorAktiv           ComparatorType = "aktiv"
	ComparatorPlacebo         ComparatorType = "placebo"
	ComparatorBSC             ComparatorType = "BSC"
	ComparatorPhysicianChoice ComparatorType = "physician's choice"
	ComparatorUnklar          ComparatorType = "unklar"
)

// TherapyAreas lists the selectable therapy areas in display order.
var TherapyAreas = []TherapyArea{
	AreaAugen, AreaHaut, AreaHerz, AreaInfektionen, AreaAtmung, AreaBlut,
	AreaMuskel, AreaNervensystem, AreaUrogenital, AreaVerdauung,
	AreaOnkologie, AreaPsychische, AreaStoffwechsel, AreaSonstiges,
}

var Settings = []Setting{SettingAmbulant, SettingStationaer, SettingBeides, SettingUnklar}

var Roles = []Role{RoleReplacement, RoleAddOn, RoleMonotherapy, RoleUnklar}

var Lines = []Line{Line1L, Line2L, LineSpaeter, LineSwitch, LineUnklar}

var ComparatorTypes = []ComparatorType{
	ComparatorAktiv, ComparatorPlacebo, ComparatorBSC, ComparatorPhysicianChoice, ComparatorUnklar,
}

// Request is the shortlist query the wizard builds incrementally. All fields
// are optional until Validate runs at final submission; the zero value is a
// valid empty draft.
type Request struct {
	TherapyArea    TherapyArea    `json:"therapy_area,omitempty"`
	ProjectName    string         `json:"project_name,omitempty"`
	IndicationText string         `json:"indication_text,omitempty"`
	PopulationText string         `json:"population_text,omitempty"`
	Setting        Setting        `json:"setting,omitempty"`
	Role           Role           `json:"role,omitempty"`
	Line           Line           `json:"line,omitempty"`
	ComparatorType ComparatorType `json:"comparator_type,omitempty"`
	ComparatorText string         `json:"comparator_text,omitempty"`
}

// IsEmpty reports whether no field has been entered yet.
func (r Request) IsEmpty() bool {
	return r == Request{}
}

type Reference struct {
	DecisionID   string  `json:"decision_id"`
	ProductName  string  `json:"product_name"`
	DecisionDate string  `json:"decision_date"`
	URL          string  `json:"url"`
	Snippet      string  `json:"snippet"`
	Score        float64 `json:"score"`
}

type Candidate struct {
	Rank          int         `json:"rank"`
	CandidateText string      `json:"candidate_text"`
	SupportScore  float64     `json:"support_score"`
	Confidence    Level       `json:"confidence"`
	SupportCases  int         `json:"support_cases"`
	References    []Reference `json:"references"`
}

// Response is the canonical shortlist result every component downstream of
// ingestion consumes. Produced exclusively by Normalize; raw wire fields
// (plausibility aliases, absent status) never travel past that point.
type Response struct {
	RunID       string      `json:"run_id"`
	Candidates  []Candidate `json:"candidates"`
	Ambiguity   Level       `json:"ambiguity"`
	GeneratedAt string      `json:"generated_at,omitempty"`
	Status      Status      `json:"status"`
	Notices     []string    `json:"notices,omitempty"`
	Reasons     []string    `json:"reasons,omitempty"`

	// Reliability is the backend-supplied label, empty when the backend did
	// not send one (older responses). Derive fills the gap.
	Reliability        Level    `json:"reliability,omitempty"`
	ReliabilityReasons []string `json:"reliability_reasons,omitempty"`
}
