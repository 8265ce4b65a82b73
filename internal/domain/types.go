package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the current lifecycle state of an asset.
type Status string

const (
	StatusInUse       Status = "In Use"
	StatusUnderRepair Status = "Under Repair"
	StatusUnderPM     Status = "Under PM"
	StatusDamaged     Status = "Damaged"
	StatusStorage     Status = "Storage"
	StatusUnknown     Status = "Unknown"
	StatusOther       Status = "Other"
)

// SubStatus is the repair-pipeline stage. It is meaningful only while an
// asset is Under Repair; every other status carries SubNone.
type SubStatus string

const (
	SubNone           SubStatus = "N/A"
	SubToCheck        SubStatus = "To Check"
	SubWaitingParts   SubStatus = "Waiting Parts"
	SubReadyToInstall SubStatus = "Ready to Install"
)

// ParseSubStatus validates a repair stage supplied by an operator.
func ParseSubStatus(s string) (SubStatus, error) {
	switch sub := SubStatus(strings.TrimSpace(s)); sub {
	case SubToCheck, SubWaitingParts, SubReadyToInstall:
		return sub, nil
	default:
		return SubNone, fmt.Errorf("invalid repair stage %q", s)
	}
}

// Action is the kind of transaction an operator commits.
type Action string

const (
	ActionInstall Action = "Install"
	ActionRemove  Action = "Remove"
)

// ParseAction validates an action supplied by an operator.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.TrimSpace(s)); a {
	case ActionInstall, ActionRemove:
		return a, nil
	default:
		return "", fmt.Errorf("invalid action %q", s)
	}
}

// RemovalReason classifies why an asset comes off a machine.
type RemovalReason string

const (
	ReasonRepair  RemovalReason = "Repair"
	ReasonPM      RemovalReason = "Preventive Maintenance"
	ReasonDamaged RemovalReason = "Damaged"
	ReasonOther   RemovalReason = "Other"
	ReasonUnknown RemovalReason = "Unknown"
)

// ParseRemovalReason validates a removal reason supplied by an operator.
func ParseRemovalReason(s string) (RemovalReason, error) {
	switch r := RemovalReason(strings.TrimSpace(s)); r {
	case ReasonRepair, ReasonPM, ReasonDamaged, ReasonOther, ReasonUnknown:
		return r, nil
	default:
		return "", fmt.Errorf("invalid removal reason %q", s)
	}
}

// CategoryOther is the failure category that requires a written explanation
// before a transaction may commit.
const CategoryOther = "Other"

// LocationWorkshop is where every removed asset lands.
const LocationWorkshop = "Workshop"

// LocationStorage is the location assigned to freshly registered assets.
const LocationStorage = "Storage"

// NormalizeID canonicalizes a scanned or typed panel ID: surrounding
// whitespace stripped, uppercased. All lookups and writes key on the
// normalized form.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Asset is one row of the inventory snapshot: the current state of a single
// panel holder. The snapshot reflects only the latest transaction per asset.
type Asset struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	SubStatus   SubStatus `json:"sub_status"`
	Location    string    `json:"location"`
	LastUpdated time.Time `json:"last_updated"`
}

// Transaction is one row of the append-only history log. AssetID is not a
// foreign key; history rows survive regardless of the inventory's contents.
type Transaction struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	AssetID   string    `json:"asset_id"`
	Action    Action    `json:"action"`
	User      string    `json:"user"`
	Category  string    `json:"category"`
	SubStatus SubStatus `json:"sub_status"`
	Comments  string    `json:"comments"`
}
