package model

import (
	"strings"
	"time"
)

// KompetensiMode selects how competency standards (CP/TP) are chosen.
type KompetensiMode string

const (
	KompetensiAuto   KompetensiMode = "AUTO"
	KompetensiManual KompetensiMode = "MANUAL"
)

// AnswerKeyDetail selects how detailed the teacher answer key should be.
type AnswerKeyDetail string

const (
	AnswerKeyDetailed AnswerKeyDetail = "DETAILED"
	AnswerKeySimple   AnswerKeyDetail = "SIMPLE"
	AnswerKeyRubric   AnswerKeyDetail = "RUBRIC"
)

// DistribusiMode is a difficulty-distribution preset.
type DistribusiMode string

const (
	DistribusiFlat         DistribusiMode = "FLAT"
	DistribusiProportional DistribusiMode = "PROPORTIONAL"
	DistribusiHOTS         DistribusiMode = "HOTS"
	DistribusiRemedial     DistribusiMode = "REMEDIAL"
)

// QuestionRequest is the structure the wizard edits across its three steps
// and the prompt builder consumes on submit. Field names keep the Indonesian
// domain terms of the catalogs they are filled from.
type QuestionRequest struct {
	RegulasiBasis    string          `json:"regulasiBasis"`
	Language         string          `json:"language"`
	Jenjang          string          `json:"jenjang"`
	Kelas            string          `json:"kelas"`
	Kurikulum        string          `json:"kurikulum"`
	Mapel            string          `json:"mapel"`
	Topik            string          `json:"topik"`
	SubElemen        string          `json:"subElemen,omitempty"`
	KompetensiMode   KompetensiMode  `json:"kompetensiMode"`
	KompetensiManual string          `json:"kompetensiManual,omitempty"`
	Semester         string          `json:"semester"`
	JenisSoal        []string        `json:"jenisSoal"`
	JumlahPerJenis   map[string]int  `json:"jumlahPerJenis"`
	JumlahOpsi       int             `json:"jumlahOpsi"`
	AnswerKeyDetail  AnswerKeyDetail `json:"answerKeyDetail"`
	UploadedText     string          `json:"uploadedFileContent,omitempty"`
	UploadedFileName string          `json:"uploadedFileName,omitempty"`
	UseStimulus      bool            `json:"useStimulus"`
	JenisStimulus    string          `json:"jenisStimulus,omitempty"`
	SoalPerStimulus  int             `json:"soalPerStimulus,omitempty"`
	EnableImageMode  bool            `json:"enableImageMode"`
	ImageQuantity    int             `json:"imageQuantity"`
	DistribusiMode   DistribusiMode  `json:"distribusiMode"`
	GayaBahasa       string          `json:"gayaBahasa"`
	Level            string          `json:"level"`
	Jumlah           int             `json:"jumlah"`
	UserType         string          `json:"userType"`
}

// TotalQuestions sums the per-type counts for the selected question types.
// Counts for types that are no longer selected do not contribute.
func (r QuestionRequest) TotalQuestions() int {
	total := 0
	for _, jenis := range r.JenisSoal {
		total += r.JumlahPerJenis[jenis]
	}
	return total
}

// IsEnglish reports whether the exam should be generated in English.
func (r QuestionRequest) IsEnglish() bool {
	lang := strings.ToLower(r.Language)
	return strings.Contains(lang, "english") || strings.Contains(lang, "inggris")
}

// RefineAction is one of the closed set of post-generation refinement
// operations. The previous result is always preserved when refinement fails.
type RefineAction string

const (
	RefineAudit        RefineAction = "AUDIT"
	RefineSimilarity   RefineAction = "SIMILARITY"
	RefineKisiKisi     RefineAction = "KISI_KISI"
	RefineAnalysis     RefineAction = "ANALYSIS"
	RefineVariasiA     RefineAction = "VARIASI_A"
	RefineVariasiB     RefineAction = "VARIASI_B"
	RefineMultiPacket  RefineAction = "MULTI_PACKET"
	RefineShuffleQ     RefineAction = "SHUFFLE_Q"
	RefineShuffleOpt   RefineAction = "SHUFFLE_OPT"
	RefineConvertPG    RefineAction = "CONVERT_PG"
	RefineConvertAKM   RefineAction = "CONVERT_AKM"
	RefineConvertEssay RefineAction = "CONVERT_ESSAY"
	RefineLevelUp      RefineAction = "LEVEL_UP"
	RefineFixLang      RefineAction = "FIX_LANG"
)

// RefineActions lists every valid refinement action.
var RefineActions = []RefineAction{
	RefineAudit, RefineSimilarity, RefineKisiKisi, RefineAnalysis,
	RefineVariasiA, RefineVariasiB, RefineMultiPacket,
	RefineShuffleQ, RefineShuffleOpt,
	RefineConvertPG, RefineConvertAKM, RefineConvertEssay,
	RefineLevelUp, RefineFixLang,
}

// IsValidRefineAction checks an action tag against the closed set.
func IsValidRefineAction(a string) bool {
	for _, v := range RefineActions {
		if RefineAction(a) == v {
			return true
		}
	}
	return false
}

// HistoryItem is one saved (request, result) pair. Immutable once created.
type HistoryItem struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Request   QuestionRequest `json:"request"`
	Result    string          `json:"result"`
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	Addr     string
	DBPath   string
	Lang     string
	BasePath string
}
