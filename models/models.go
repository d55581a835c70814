package models

import "time"

// Source identifies which call log a record came from.
type Source string

const (
	SourceInboundQueue   Source = "INBOUND_QUEUE"
	SourceOutboundDialer Source = "OUTBOUND_DIALER"
)

// Answered/Hungup flag values used by the inbound queue log.
const (
	FlagAnswered = "ANSWERED"
	FlagHungup   = "HUNGUP"
)

// QuickDropCutoffSeconds separates caller impatience from true abandonment:
// a hungup call waiting longer than this is an abandon call, at most this
// is a quick drop.
const QuickDropCutoffSeconds = 27

// CallRecord is one raw row from either log, immutable once read. Fields
// are kept as exported strings exactly as loaded; normalization happens at
// the point of use. Inbound records populate AnsweredHungup, WaitTime and
// Queue; outbound records populate CallType and SystemDisposition.
type CallRecord struct {
	Source            Source
	Phone             string
	CallTime          string
	WaitTime          string
	TalkTime          string
	Disposition       string
	Queue             string
	Agent             string
	AnsweredHungup    string
	CallType          string
	SystemDisposition string
}

// NormalizedPhone is the canonical 10-digit form of a phone number. It is
// the natural key joining the two logs: raw strings sharing the same
// trailing 10 digits are the same customer.
type NormalizedPhone string

// AbandonEvent is one classified abandoned call.
type AbandonEvent struct {
	Time         time.Time
	BusinessDate time.Time
	WaitSeconds  int
	Queue        string
	Agent        string
	Disposition  string
}

// RecoveryStatus is the per-phone resolution after the recovery search.
type RecoveryStatus string

const (
	// StatusNeedsOutbound is the initial status: no later contact found yet.
	StatusNeedsOutbound RecoveryStatus = "NEEDS_OUTBOUND"
	// StatusAttempted means a later contact happened but its disposition was
	// not in the success list.
	StatusAttempted RecoveryStatus = "ATTEMPTED"
	// StatusRecovered means a later contact ended with a successful
	// disposition. Terminal.
	StatusRecovered RecoveryStatus = "RECOVERED"
)

// Direction distinguishes how a recovery contact happened.
type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

// RecoveryAttempt records the later contact found for an abandoning phone.
// At most one is kept per phone: the first unsuccessful candidate until a
// successful one replaces it.
type RecoveryAttempt struct {
	Direction    Direction
	Time         time.Time
	TimeRaw      string
	BusinessDate time.Time
	Disposition  string
	Agent        string
	TalkTime     string
	Success      bool
}

// PhoneAbandonAggregate is the per-customer record: every abandon event for
// one normalized phone plus the resolution found for it. Created on the
// first abandon event, mutated as later events and the recovery search are
// processed, never destroyed within a run.
type PhoneAbandonAggregate struct {
	Phone            NormalizedPhone
	OriginalPhone    string // raw form of the first event seen, display only
	FirstAbandonTime time.Time
	FirstAbandonRaw  string
	FirstAbandonDate time.Time
	Events           []AbandonEvent
	AbandonCount     int
	Status           RecoveryStatus
	Recovery         *RecoveryAttempt
}

// AggregateMap holds one aggregate per distinct abandoning phone.
type AggregateMap map[NormalizedPhone]*PhoneAbandonAggregate

// SummaryMetrics are the whole-run business figures. The four arithmetic
// identities checked by the consistency validator hold between its fields:
//
//	Answered + Hungup = ValidCalls
//	QuickDrops + AbandonCalls = Hungup
//	RecoveredPhones + NeedingOutbound = UniqueAbandonPhones
//	0 <= AbandonmentRate <= 100
type SummaryMetrics struct {
	ValidCalls          int
	Answered            int
	Hungup              int
	QuickDrops          int
	AbandonCalls        int
	UniqueAbandonPhones int
	RecoveredPhones     int
	NeedingOutbound     int
	AbandonmentRate     float64
}

// DailyMetrics is the summary shape restricted to one business date. The
// phone figures cover the date's first-abandon cohort: a phone counts on
// the business date of its earliest abandon only.
type DailyMetrics struct {
	Date time.Time
	SummaryMetrics
}

// CheckResult is one consistency validator verdict.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}
