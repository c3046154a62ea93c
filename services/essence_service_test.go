package services

import (
	"errors"
	"testing"

	"season-economy-system/models"

	"github.com/google/uuid"
)

func TestEssenceCreditDebitRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewEssenceService(db)
	player := uuid.NewString()

	e, err := svc.Credit(player, models.EssenceRock, 10)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if e.Rock != 10 {
		t.Fatalf("rock = %d, want 10", e.Rock)
	}
	if e.Paper != 0 || e.Scissors != 0 {
		t.Fatalf("credit leaked across kinds: %+v", e)
	}

	e, err = svc.Debit(player, models.EssenceRock, 4)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if e.Rock != 6 {
		t.Fatalf("rock = %d, want 6", e.Rock)
	}
}

func TestEssenceDebitInsufficient(t *testing.T) {
	db := openTestDB(t)
	svc := NewEssenceService(db)
	player := uuid.NewString()

	if _, err := svc.Credit(player, models.EssencePaper, 3); err != nil {
		t.Fatalf("credit: %v", err)
	}

	_, err := svc.Debit(player, models.EssencePaper, 4)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	e, err := svc.Get(player)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Paper != 3 {
		t.Fatalf("failed debit mutated balance: %d", e.Paper)
	}
}

func TestEssenceRejectsNonPositiveAmounts(t *testing.T) {
	db := openTestDB(t)
	svc := NewEssenceService(db)
	player := uuid.NewString()

	for _, amount := range []int64{0, -5} {
		if _, err := svc.Credit(player, models.EssenceRock, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("credit %d: err = %v, want ErrInvalidAmount", amount, err)
		}
		if _, err := svc.Debit(player, models.EssenceRock, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("debit %d: err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestEssenceRejectsUnknownKind(t *testing.T) {
	db := openTestDB(t)
	svc := NewEssenceService(db)

	if _, err := svc.Credit(uuid.NewString(), models.EssenceKind("fire"), 1); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestDebitCostChargesEachKind(t *testing.T) {
	db := openTestDB(t)
	svc := NewEssenceService(db)
	player := uuid.NewString()

	for _, kind := range []models.EssenceKind{models.EssenceRock, models.EssencePaper, models.EssenceScissors} {
		if _, err := svc.Credit(player, kind, 10); err != nil {
			t.Fatalf("credit %s: %v", kind, err)
		}
	}

	cost := models.EssenceCost{Rock: 2, Paper: 3, Scissors: 5}
	if err := svc.DebitCost(db, player, cost); err != nil {
		t.Fatalf("debit cost: %v", err)
	}

	e, err := svc.Get(player)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Rock != 8 || e.Paper != 7 || e.Scissors != 5 {
		t.Fatalf("balances = %d/%d/%d, want 8/7/5", e.Rock, e.Paper, e.Scissors)
	}
}

func TestDebitCostInsufficientKind(t *testing.T) {
	db := openTestDB(t)
	svc := NewEssenceService(db)
	player := uuid.NewString()

	if _, err := svc.Credit(player, models.EssenceRock, 10); err != nil {
		t.Fatalf("credit: %v", err)
	}

	err := svc.DebitCost(db, player, models.EssenceCost{Rock: 2, Paper: 1})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
}
