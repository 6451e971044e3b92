package model

import "fmt"

// Location is where a game was played, from the winner's perspective.
type Location string

const (
	LocationHome    Location = "H"
	LocationAway    Location = "A"
	LocationNeutral Location = "N"
)

func (l Location) String() string {
	switch l {
	case LocationHome:
		return "home"
	case LocationAway:
		return "away"
	case LocationNeutral:
		return "neutral"
	default:
		return "?"
	}
}

// ParseLocation converts a WLoc column value into a Location.
func ParseLocation(s string) (Location, error) {
	switch Location(s) {
	case LocationHome, LocationAway, LocationNeutral:
		return Location(s), nil
	}
	return "", fmt.Errorf("unknown location %q", s)
}

// ---- Stat names, in the order they appear in a feature vector ----

const (
	StatScore   = "score"
	StatFGA     = "fga"
	StatFGPct   = "fgp"
	StatFGA3    = "fga3"
	Stat3PPct   = "3pp"
	StatFTPct   = "ftp"
	StatOffReb  = "or"
	StatDefReb  = "dr"
	StatAssists = "ast"
	StatTO      = "to"
	StatSteals  = "stl"
	StatBlocks  = "blk"
	StatFouls   = "pf"
)

// StatOrder is the canonical stat order used for every feature vector.
var StatOrder = []string{
	StatScore, StatFGA, StatFGPct, StatFGA3, Stat3PPct, StatFTPct,
	StatOffReb, StatDefReb, StatAssists, StatTO, StatSteals, StatBlocks, StatFouls,
}

// FeatureLen is the length of a full two-team feature vector.
var FeatureLen = 2 * (1 + len(StatOrder))

// ---- Raw input records ----

// Team is one row of the team directory.
type Team struct {
	ID   int
	Name string
}

// BoxScore holds one side's detailed box score for a game.
type BoxScore struct {
	Score int
	FGM   int
	FGA   int
	FGM3  int
	FGA3  int
	FTM   int
	FTA   int
	OR    int
	DR    int
	Ast   int
	TO    int
	Stl   int
	Blk   int
	PF    int
}

// FGPct returns field-goal percentage (0-100). ok is false when FGA is zero.
func (b BoxScore) FGPct() (pct float64, ok bool) {
	return percent(b.FGM, b.FGA)
}

// ThreePct returns 3-point percentage (0-100). ok is false when FGA3 is zero.
func (b BoxScore) ThreePct() (pct float64, ok bool) {
	return percent(b.FGM3, b.FGA3)
}

// FTPct returns free-throw percentage (0-100). ok is false when FTA is zero.
func (b BoxScore) FTPct() (pct float64, ok bool) {
	return percent(b.FTM, b.FTA)
}

func percent(makes, attempts int) (float64, bool) {
	if attempts == 0 {
		return 0, false
	}
	return float64(makes) / float64(attempts) * 100, true
}

// HasAttempts reports whether every percentage stat has a non-zero
// denominator: field goals, threes and free throws.
func (b BoxScore) HasAttempts() bool {
	return b.FGA != 0 && b.FGA3 != 0 && b.FTA != 0
}

// StatValues converts a box score into named stat observations. Percentage
// stats whose attempt count is zero are omitted.
func (b BoxScore) StatValues() map[string]float64 {
	out := map[string]float64{
		StatScore:   float64(b.Score),
		StatFGA:     float64(b.FGA),
		StatFGA3:    float64(b.FGA3),
		StatOffReb:  float64(b.OR),
		StatDefReb:  float64(b.DR),
		StatAssists: float64(b.Ast),
		StatTO:      float64(b.TO),
		StatSteals:  float64(b.Stl),
		StatBlocks:  float64(b.Blk),
		StatFouls:   float64(b.PF),
	}
	if v, ok := b.FGPct(); ok {
		out[StatFGPct] = v
	}
	if v, ok := b.ThreePct(); ok {
		out[Stat3PPct] = v
	}
	if v, ok := b.FTPct(); ok {
		out[StatFTPct] = v
	}
	return out
}

// Game is one observed result with both box scores.
type Game struct {
	Season  int
	DayNum  int
	WTeamID int
	LTeamID int
	WLoc    Location
	NumOT   int
	Winner  BoxScore
	Loser   BoxScore
	Tourney bool // true for NCAA tournament games
}

// Seed is one initial bracket entry, e.g. "W01" -> 1181.
type Seed struct {
	Season int
	Label  string
	TeamID int
}

// Slot is a bracket position fed by two references, each either a seed
// label or another slot's label.
type Slot struct {
	Season     int
	Label      string
	StrongSeed string
	WeakSeed   string
}

// ---- Derived records ----

// Prediction is the model's probability that Low beats High.
type Prediction struct {
	Season int
	Low    int
	High   int
	Prob   float64
}

// ID returns the submission label "<season>_<low>_<high>".
func (p Prediction) ID() string {
	return fmt.Sprintf("%d_%d_%d", p.Season, p.Low, p.High)
}

// Winner returns the predicted winner, loser and the winner's probability.
func (p Prediction) Winner() (winner, loser int, prob float64) {
	if p.Prob > 0.5 {
		return p.Low, p.High, p.Prob
	}
	return p.High, p.Low, 1 - p.Prob
}

// SlotResult is one resolved bracket slot.
type SlotResult struct {
	Slot   string
	Team1  int
	Team2  int
	Winner int
	Prob   float64
}

// TeamRating is a team's rating at the end of the replayed game log.
type TeamRating struct {
	Season int
	TeamID int
	Rating int
}

// RunSummary is a lightweight record for the runs/show commands.
type RunSummary struct {
	ID         string
	Season     int
	CreatedAt  string
	Samples    int
	Skipped    int
	CVAccuracy float64
	Champion   int
}

// Inputs is everything a run reads: the team directory, the game log in
// chronological order, and every season's seeds and slots.
type Inputs struct {
	Teams []Team
	Games []Game
	Seeds []Seed
	Slots []Slot
}

// TeamNames indexes the team directory by id.
func (in *Inputs) TeamNames() map[int]string {
	out := make(map[int]string, len(in.Teams))
	for _, t := range in.Teams {
		out[t.ID] = t.Name
	}
	return out
}

// SeasonSeeds returns the seeds for one season, in input order.
func (in *Inputs) SeasonSeeds(season int) []Seed {
	var out []Seed
	for _, s := range in.Seeds {
		if s.Season == season {
			out = append(out, s)
		}
	}
	return out
}

// SeasonSlots returns the slots for one season, in input order.
func (in *Inputs) SeasonSlots(season int) []Slot {
	var out []Slot
	for _, s := range in.Slots {
		if s.Season == season {
			out = append(out, s)
		}
	}
	return out
}
