package economy

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxStreak = 7

	ItemClaim = "cl"
)

var (
	InitialRawMaterial       = decimal.NewFromInt(100)
	InitialBankBalance       = decimal.Zero
	BankTransferLimit        = decimal.NewFromInt(10000)
	DefaultCommissionPercent = decimal.NewFromInt(10)

	hundred = decimal.NewFromInt(100)
)

// Tables are indexed by level-1.
var capacityTables = map[Entity][]decimal.Decimal{
	EntityMoneyStorage: decimals(
		"1000", "3000", "8000", "20000", "50000",
		"150000", "500000", "2000000", "10000000", "30000000",
	),
	EntityMaterialStorage: decimals(
		"500", "1000", "2000", "4000", "8000",
		"15000", "30000", "60000", "120000", "250000",
	),
}

// productionRate is material consumed (and units printed) per second;
// unitValue is currency earned per printed unit.
var rateTables = map[Entity][]decimal.Decimal{
	EntityProductionRate: decimals(
		"0.02", "0.03", "0.05", "0.08", "0.12",
		"0.18", "0.25", "0.35", "0.5", "0.75",
	),
	EntityUnitValue: decimals(
		"5", "8", "12", "20", "35",
		"60", "100", "175", "300", "500",
	),
}

// levelUpPrices[entity][0] is the price of reaching level 2.
var levelUpPrices = map[Entity][]decimal.Decimal{
	EntityMoneyStorage: decimals(
		"300", "1000", "3000", "8000", "20000",
		"60000", "200000", "800000", "3000000",
	),
	EntityMaterialStorage: decimals(
		"200", "600", "1500", "4000", "10000",
		"25000", "60000", "150000", "400000",
	),
	EntityProductionRate: decimals(
		"250", "700", "2000", "5000", "12000",
		"30000", "80000", "200000", "500000",
	),
	EntityUnitValue: decimals(
		"500", "1500", "4000", "10000", "30000",
		"90000", "300000", "1000000", "3000000",
	),
}

var maxLevels = map[Entity]int{
	EntityMoneyStorage:    10,
	EntityMaterialStorage: 10,
	EntityProductionRate:  10,
	EntityUnitValue:       10,
}

type Pack struct {
	Size   PackSize        `json:"size"`
	Cost   decimal.Decimal `json:"cost"`
	Amount decimal.Decimal `json:"amount"`
}

var packs = map[PackSize]Pack{
	PackBase:   {Size: PackBase, Cost: decimal.NewFromInt(50), Amount: decimal.NewFromInt(100)},
	PackMedium: {Size: PackMedium, Cost: decimal.NewFromInt(200), Amount: decimal.NewFromInt(500)},
	PackLarge:  {Size: PackLarge, Cost: decimal.NewFromInt(700), Amount: decimal.NewFromInt(2000)},
}

// Booster is a temporary production bonus bought with tokens or stars.
// Price is in the smallest token unit as reported by the chain explorer.
type Booster struct {
	ID       string          `json:"id"`
	Percent  decimal.Decimal `json:"boost"`
	Duration time.Duration   `json:"-"`
	Hours    int             `json:"hours"`
	Price    decimal.Decimal `json:"price"`
	Stars    int             `json:"stars"`
}

var boosters = map[string]Booster{
	"p1": newBooster("p1", 25, 24, "500000000", 50),
	"p2": newBooster("p2", 50, 24, "1000000000", 100),
	"p3": newBooster("p3", 100, 12, "2000000000", 180),
}

var purchaseItems = map[string]bool{"l1": true, "l2": true, "l3": true}

type RankStep struct {
	Rank       Rank            `json:"rank"`
	Experience int64           `json:"experience"`
	Cost       decimal.Decimal `json:"cost"`
}

var rankLadder = []RankStep{
	{Rank: RankBronzeMedal},
	{Rank: RankSilverMedal, Experience: 100, Cost: decimal.NewFromInt(500000)},
	{Rank: RankGoldMedal, Experience: 200, Cost: decimal.NewFromInt(2500000)},
	{Rank: RankBronzeCup, Experience: 300, Cost: decimal.NewFromInt(10000000)},
	{Rank: RankSilverCup, Experience: 400, Cost: decimal.NewFromInt(15000000)},
	{Rank: RankGoldCup, Experience: 500, Cost: decimal.NewFromInt(25000000)},
}

func Capacity(entity Entity, level int) (decimal.Decimal, error) {
	table, ok := capacityTables[entity]
	if !ok {
		return decimal.Decimal{}, invalidEntity(entity)
	}
	return lookup(table, "capacity."+string(entity), level-1)
}

func Rate(entity Entity, level int) (decimal.Decimal, error) {
	table, ok := rateTables[entity]
	if !ok {
		return decimal.Decimal{}, invalidEntity(entity)
	}
	return lookup(table, "rate."+string(entity), level-1)
}

// LevelUpPrice is the cost of raising entity to nextLevel.
func LevelUpPrice(entity Entity, nextLevel int) (decimal.Decimal, error) {
	table, ok := levelUpPrices[entity]
	if !ok {
		return decimal.Decimal{}, invalidEntity(entity)
	}
	return lookup(table, "price."+string(entity), nextLevel-2)
}

func MaxLevel(entity Entity) (int, error) {
	limit, ok := maxLevels[entity]
	if !ok {
		return 0, invalidEntity(entity)
	}
	return limit, nil
}

func PackFor(size PackSize) (Pack, error) {
	p, ok := packs[size]
	if !ok {
		return Pack{}, ErrInvalidPack
	}
	return p, nil
}

func BoosterFor(id string) (Booster, bool) {
	b, ok := boosters[id]
	return b, ok
}

func Boosters() []Booster {
	out := make([]Booster, 0, len(boosters))
	for _, id := range []string{"p1", "p2", "p3"} {
		out = append(out, boosters[id])
	}
	return out
}

// LongestBoost bounds how far back a booster record can still be active.
func LongestBoost() time.Duration {
	var longest time.Duration
	for _, b := range boosters {
		if b.Duration > longest {
			longest = b.Duration
		}
	}
	return longest
}

func IsPurchaseItem(item string) bool {
	return purchaseItems[item]
}

func RankLadder() []RankStep {
	out := make([]RankStep, len(rankLadder))
	copy(out, rankLadder)
	return out
}

// NextRank returns the step above r, or false at the top of the ladder.
func NextRank(r Rank) (RankStep, bool) {
	for i, step := range rankLadder {
		if step.Rank == r && i+1 < len(rankLadder) {
			return rankLadder[i+1], true
		}
	}
	return RankStep{}, false
}

func ParseEntity(raw string) (Entity, error) {
	e := Entity(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := maxLevels[e]; !ok {
		return "", invalidEntity(e)
	}
	return e, nil
}

func ParsePack(raw string) (PackSize, error) {
	p := PackSize(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := packs[p]; !ok {
		return "", ErrInvalidPack
	}
	return p, nil
}

func lookup(table []decimal.Decimal, name string, idx int) (decimal.Decimal, error) {
	if idx < 0 || idx >= len(table) {
		return decimal.Decimal{}, &ConfigError{Table: name, Index: idx}
	}
	return table[idx], nil
}

func newBooster(id string, percent int64, hours int, price string, stars int) Booster {
	return Booster{
		ID:       id,
		Percent:  decimal.NewFromInt(percent),
		Duration: time.Duration(hours) * time.Hour,
		Hours:    hours,
		Price:    decimal.RequireFromString(price),
		Stars:    stars,
	}
}

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}
