package models

import "time"

// LetterDirection distinguishes the two registers.
type LetterDirection string

const (
	DirectionIncoming LetterDirection = "INCOMING"
	DirectionOutgoing LetterDirection = "OUTGOING"
)

// LetterNature is the sifat surat classification.
type LetterNature string

const (
	NatureBiasa         LetterNature = "BIASA"
	NatureTerbatas      LetterNature = "TERBATAS"
	NatureRahasia       LetterNature = "RAHASIA"
	NatureSangatRahasia LetterNature = "SANGAT_RAHASIA"
	NaturePenting       LetterNature = "PENTING"
)

// ValidNature reports membership in the closed nature set.
func ValidNature(n LetterNature) bool {
	switch n {
	case NatureBiasa, NatureTerbatas, NatureRahasia, NatureSangatRahasia, NaturePenting:
		return true
	}
	return false
}

// Department is the closed set of internal routing targets.
type Department string

const (
	DeptSekretariat Department = "SEKRETARIAT"
	DeptTataUsaha   Department = "TATA_USAHA"
	DeptKeuangan    Department = "KEUANGAN"
	DeptKepegawaian Department = "KEPEGAWAIAN"
	DeptProgram     Department = "PROGRAM"
	DeptUmum        Department = "UMUM"
)

// ValidDepartment reports membership in the closed department set.
func ValidDepartment(d Department) bool {
	switch d {
	case DeptSekretariat, DeptTataUsaha, DeptKeuangan, DeptKepegawaian, DeptProgram, DeptUmum:
		return true
	}
	return false
}

// DispositionMethod tells how a letter gets routed.
type DispositionMethod string

const (
	DispositionManual   DispositionMethod = "MANUAL"
	DispositionExternal DispositionMethod = "EXTERNAL_SYSTEM"
)

// Letter is a registered piece of correspondence, incoming or outgoing.
// ReceivedDate doubles as the created date for outgoing letters.
type Letter struct {
	ID            string          `db:"id" json:"id"`
	Direction     LetterDirection `db:"direction" json:"direction"`
	LetterNumber  string          `db:"letter_number" json:"letter_number"`
	Nature        LetterNature    `db:"nature" json:"nature"`
	SecurityClass *string         `db:"security_class" json:"security_class,omitempty"`
	Sender        string          `db:"sender" json:"sender"`
	Recipient     string          `db:"recipient" json:"recipient"`
	Processor     string          `db:"processor" json:"processor"`
	ReceivedDate  time.Time       `db:"received_date" json:"received_date"`
	LetterDate    *time.Time      `db:"letter_date" json:"letter_date,omitempty"`
	ExecutionDate *time.Time      `db:"execution_date" json:"execution_date,omitempty"`
	Subject       string          `db:"subject" json:"subject"`
	Note          *string         `db:"note" json:"note,omitempty"`

	IsInvitation  bool       `db:"is_invitation" json:"is_invitation"`
	EventDate     *time.Time `db:"event_date" json:"event_date,omitempty"`
	EventTime     *string    `db:"event_time" json:"event_time,omitempty"`
	EventLocation *string    `db:"event_location" json:"event_location,omitempty"`
	EventNotes    *string    `db:"event_notes" json:"event_notes,omitempty"`

	NeedsFollowUp     bool       `db:"needs_follow_up" json:"needs_follow_up"`
	FollowUpDeadline  *time.Time `db:"follow_up_deadline" json:"follow_up_deadline,omitempty"`
	OverdueNotifiedAt *time.Time `db:"overdue_notified_at" json:"overdue_notified_at,omitempty"`

	DispositionMethod *DispositionMethod `db:"disposition_method" json:"disposition_method,omitempty"`
	DispositionTarget *Department        `db:"disposition_target" json:"disposition_target,omitempty"`
	ExternalRefNumber *string            `db:"external_ref_number" json:"external_ref_number,omitempty"`

	FileName *string `db:"file_name" json:"file_name,omitempty"`
	FilePath *string `db:"file_path" json:"-"`

	UserID   string `db:"user_id" json:"user_id"`
	UserName string `db:"user_name" json:"user_name"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LetterFilter narrows down letter listings.
type LetterFilter struct {
	Direction    LetterDirection
	Search       string
	Nature       *LetterNature
	IsInvitation *bool
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

// WeeklyLetterCounts carries the weekly summary aggregates.
type WeeklyLetterCounts struct {
	Incoming int `db:"incoming"`
	Outgoing int `db:"outgoing"`
}
