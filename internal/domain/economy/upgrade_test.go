package economy

import (
	"errors"
	"testing"
	"time"
)

func TestLevelUp(t *testing.T) {
	cases := []struct {
		name      string
		entity    Entity
		setup     func(*Player)
		wantErr   error
		wantLevel int
		wantBal   string
	}{
		{
			name:      "pays price and advances",
			entity:    EntityMoneyStorage,
			setup:     func(p *Player) { p.Balance = dec("400") },
			wantLevel: 2,
			wantBal:   "100",
		},
		{
			name:      "not enough balance",
			entity:    EntityMoneyStorage,
			setup:     func(p *Player) { p.Balance = dec("299.99") },
			wantErr:   ErrNotEnoughBalance,
			wantLevel: 1,
			wantBal:   "299.99",
		},
		{
			name:   "restock guard",
			entity: EntityMoneyStorage,
			setup: func(p *Player) {
				p.Balance = dec("320")
				p.RawMaterial = dec("20")
			},
			wantErr:   ErrNotEnoughBalance,
			wantLevel: 1,
			wantBal:   "320",
		},
		{
			name:   "material counts toward restock guard",
			entity: EntityMoneyStorage,
			setup: func(p *Player) {
				p.Balance = dec("300")
				p.RawMaterial = dec("50")
			},
			wantLevel: 2,
			wantBal:   "0",
		},
		{
			name:      "max level",
			entity:    EntityMaterialStorage,
			setup:     func(p *Player) { p.MaterialStorageLevel = 10; p.Balance = dec("999999") },
			wantErr:   ErrMaxLevelReached,
			wantLevel: 10,
			wantBal:   "999999",
		},
		{
			name:    "unknown entity",
			entity:  Entity("printer_color"),
			setup:   func(p *Player) {},
			wantErr: ErrInvalidEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer("p-1", time.Now())
			tc.setup(&p)

			err := LevelUp(&p, tc.entity)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantLevel == 0 {
				return
			}
			level, _ := p.Level(tc.entity)
			if level != tc.wantLevel {
				t.Fatalf("expected level %d, got %d", tc.wantLevel, level)
			}
			if !p.Balance.Equal(dec(tc.wantBal)) {
				t.Fatalf("expected balance %s, got %s", tc.wantBal, p.Balance)
			}
		})
	}
}

func TestLevelUp_UnitValueResetsProductionRate(t *testing.T) {
	p := NewPlayer("p-1", time.Now())
	p.ProductionRateLevel = 4
	p.Balance = dec("1000")

	if err := LevelUp(&p, EntityUnitValue); err != nil {
		t.Fatalf("level up: %v", err)
	}
	if p.UnitValueLevel != 2 || p.ProductionRateLevel != 1 {
		t.Fatalf("expected unit value 2 and production rate 1, got %d/%d", p.UnitValueLevel, p.ProductionRateLevel)
	}
	if !p.Balance.Equal(dec("500")) {
		t.Fatalf("expected balance 500, got %s", p.Balance)
	}
}

func TestBuyMaterial(t *testing.T) {
	cases := []struct {
		name     string
		pack     PackSize
		balance  string
		material string
		wantErr  error
		wantBal  string
		wantMat  string
	}{
		{name: "base pack", pack: PackBase, balance: "60", material: "100", wantBal: "10", wantMat: "200"},
		{name: "fills storage exactly", pack: PackMedium, balance: "200", material: "0", wantBal: "0", wantMat: "500"},
		{name: "too expensive", pack: PackLarge, balance: "699", material: "0", wantErr: ErrNotEnoughBalance, wantBal: "699", wantMat: "0"},
		{name: "storage full", pack: PackMedium, balance: "500", material: "100", wantErr: ErrFullStorage, wantBal: "500", wantMat: "100"},
		{name: "unknown pack", pack: PackSize("huge"), balance: "500", material: "0", wantErr: ErrInvalidPack, wantBal: "500", wantMat: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer("p-1", time.Now())
			p.Balance = dec(tc.balance)
			p.RawMaterial = dec(tc.material)

			err := BuyMaterial(&p, tc.pack)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !p.Balance.Equal(dec(tc.wantBal)) || !p.RawMaterial.Equal(dec(tc.wantMat)) {
				t.Fatalf("unexpected state balance=%s material=%s", p.Balance, p.RawMaterial)
			}
		})
	}
}

func TestParseEntityAndPack(t *testing.T) {
	if e, err := ParseEntity(" Unit_Value "); err != nil || e != EntityUnitValue {
		t.Fatalf("expected unit_value, got %q %v", e, err)
	}
	if _, err := ParseEntity("ink"); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected invalid entity, got %v", err)
	}
	if p, err := ParsePack("LARGE"); err != nil || p != PackLarge {
		t.Fatalf("expected large, got %q %v", p, err)
	}
	if _, err := ParsePack("tiny"); !errors.Is(err, ErrInvalidPack) {
		t.Fatalf("expected invalid pack, got %v", err)
	}
}

func TestConstantsTablesAreComplete(t *testing.T) {
	for _, entity := range []Entity{EntityMoneyStorage, EntityMaterialStorage, EntityProductionRate, EntityUnitValue} {
		limit, err := MaxLevel(entity)
		if err != nil {
			t.Fatalf("%s: %v", entity, err)
		}
		for level := 2; level <= limit; level++ {
			if _, err := LevelUpPrice(entity, level); err != nil {
				t.Fatalf("%s price at %d: %v", entity, level, err)
			}
		}
		if _, err := LevelUpPrice(entity, limit+1); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: expected configuration fault past max level, got %v", entity, err)
		}
	}
	for level := 1; level <= 10; level++ {
		if _, err := Capacity(EntityMoneyStorage, level); err != nil {
			t.Fatalf("money capacity %d: %v", level, err)
		}
		if _, err := Capacity(EntityMaterialStorage, level); err != nil {
			t.Fatalf("material capacity %d: %v", level, err)
		}
		if _, err := Rate(EntityProductionRate, level); err != nil {
			t.Fatalf("production rate %d: %v", level, err)
		}
		if _, err := Rate(EntityUnitValue, level); err != nil {
			t.Fatalf("unit value %d: %v", level, err)
		}
	}
	if _, err := Capacity(EntityUnitValue, 1); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected unit value to have no capacity, got %v", err)
	}
}
