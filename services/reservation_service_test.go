package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pandawok/reservas-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testDate = "2031-04-12"

func guestIntent(email string, tableID, slotID *uint) CreateIntent {
	return CreateIntent{
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     email,
		Phone:     "+56911112222",
		TableID:   tableID,
		SlotID:    slotID,
		Date:      testDate,
		PartySize: 2,
	}
}

func TestCreateReservationOccupiesSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "7")
	slot := seedSlot(t, db, "19:00", "20:00")

	first, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusPending, first.Status)
	require.NotNil(t, first.SlotLock)
	assert.True(t, *first.SlotLock)

	_, err = svc.Create(guestIntent("otro@example.com", &table.ID, &slot.ID))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestCreateReservationRejectsBlacklistedWithoutWrites(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "3")
	slot := seedSlot(t, db, "20:00", "21:00")

	banned := models.Client{
		FirstName:     "Pedro",
		LastName:      "Soto",
		Email:         "pedro@example.com",
		Phone:         "+56933334444",
		IsBlacklisted: true,
	}
	require.NoError(t, db.Create(&banned).Error)

	intent := guestIntent("pedro@example.com", &table.ID, &slot.ID)
	intent.FirstName = "Pedrito"
	_, err := svc.Create(intent)
	assert.ErrorIs(t, err, ErrClientBlacklisted)

	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count, "a refused intent must leave no reservation rows")

	// The rollback also undoes the contact merge from the upsert.
	var stored models.Client
	require.NoError(t, db.First(&stored, banned.ID).Error)
	assert.Equal(t, "Pedro", stored.FirstName)
	assert.True(t, stored.IsBlacklisted)
}

func TestUpsertNeverTouchesRegistryFlags(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "5")
	slot := seedSlot(t, db, "13:00", "14:00")

	frequent := models.Client{
		FirstName:  "Laura",
		LastName:   "Mena",
		Email:      "laura@example.com",
		Phone:      "+56900001111",
		IsFrequent: true,
	}
	require.NoError(t, db.Create(&frequent).Error)

	intent := guestIntent("LAURA@example.com", &table.ID, &slot.ID)
	intent.FirstName = "Laura Ines"
	intent.Phone = "+56900009999"
	res, err := svc.Create(intent)
	require.NoError(t, err)
	require.NotNil(t, res.ClientID)
	assert.Equal(t, frequent.ID, *res.ClientID, "mixed-case email must hit the same client")

	var stored models.Client
	require.NoError(t, db.First(&stored, frequent.ID).Error)
	assert.Equal(t, "Laura Ines", stored.FirstName)
	assert.Equal(t, "+56900009999", stored.Phone)
	assert.True(t, stored.IsFrequent)
	assert.False(t, stored.IsBlacklisted)
}

func TestCancelledReservationFreesSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "2")
	slot := seedSlot(t, db, "21:00", "22:00")

	first, err := svc.Create(guestIntent("uno@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)

	cancelled, err := svc.SetStatus(first.ID, ReservationStatusCancelled)
	require.NoError(t, err)
	assert.Nil(t, cancelled.SlotLock)

	_, err = svc.Create(guestIntent("dos@example.com", &table.ID, &slot.ID))
	assert.NoError(t, err, "a cancelled reservation must not hold the slot")
}

func TestDuplicateClientBookingRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	tableA := seedTable(t, db, "8")
	tableB := seedTable(t, db, "9")
	slot := seedSlot(t, db, "19:00", "20:00")

	_, err := svc.Create(guestIntent("ana@example.com", &tableA.ID, &slot.ID))
	require.NoError(t, err)

	_, err = svc.Create(guestIntent("ana@example.com", &tableB.ID, &slot.ID))
	assert.ErrorIs(t, err, ErrDuplicateClientBooking)
}

func TestUpdateDoesNotConflictWithItself(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "4")
	slot := seedSlot(t, db, "12:00", "13:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)

	updated, err := svc.Update(res.ID, UpdateIntent{
		ClientID:  res.ClientID,
		TableID:   &table.ID,
		SlotID:    &slot.ID,
		Date:      testDate,
		PartySize: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.PartySize)
}

func TestUpdateUnassignsAndReleasesSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "6")
	slot := seedSlot(t, db, "14:00", "15:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)

	// Full-record replace with nil assignment clears mesa and horario.
	updated, err := svc.Update(res.ID, UpdateIntent{
		ClientID:  res.ClientID,
		Date:      testDate,
		PartySize: 2,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.TableID)
	assert.Nil(t, updated.SlotID)
	assert.Nil(t, updated.SlotLock)

	_, err = svc.Create(guestIntent("otro@example.com", &table.ID, &slot.ID))
	assert.NoError(t, err, "the released slot must be bookable again")
}

func TestAssignTableChecksConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "7")
	busySlot := seedSlot(t, db, "19:00", "20:00")
	freeSlot := seedSlot(t, db, "20:00", "21:00")

	_, err := svc.Create(guestIntent("ocupante@example.com", &table.ID, &busySlot.ID))
	require.NoError(t, err)

	waiting, err := svc.Create(guestIntent("espera@example.com", nil, nil))
	require.NoError(t, err)
	assert.Nil(t, waiting.SlotLock)

	_, err = svc.AssignTable(waiting.ID, table.ID, busySlot.ID)
	assert.ErrorIs(t, err, ErrSlotConflict)

	assigned, err := svc.AssignTable(waiting.ID, table.ID, freeSlot.ID)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusPending, assigned.Status)
	require.NotNil(t, assigned.SlotLock)
	assert.True(t, *assigned.SlotLock)
}

func TestMarkSeatedRecordsVisit(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)
	_, err = svc.SetStatus(res.ID, ReservationStatusConfirmed)
	require.NoError(t, err)

	seated, err := svc.MarkSeated(res.ID)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusSeated, seated.Status)

	var client models.Client
	require.NoError(t, db.First(&client, *res.ClientID).Error)
	assert.Equal(t, 1, client.Visits)
	assert.NotNil(t, client.LastVisit)

	// Seating twice is a no-op, not a second visit.
	_, err = svc.MarkSeated(res.ID)
	require.NoError(t, err)
	require.NoError(t, db.First(&client, *res.ClientID).Error)
	assert.Equal(t, 1, client.Visits)
}

func TestMarkSeatedDirectlyFromPending(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	// Walk-ins and show-up-unconfirmed guests are seated without ever
	// passing through confirmada.
	walkIn, err := svc.CreateWalkIn(WalkInIntent{
		TableID:   table.ID,
		SlotID:    &slot.ID,
		Date:      testDate,
		PartySize: 3,
	})
	require.NoError(t, err)
	require.Equal(t, ReservationStatusPending, walkIn.Status)

	seated, err := svc.MarkSeated(walkIn.ID)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusSeated, seated.Status)
}

func TestMarkSeatedRefusedWhenCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)
	_, err = svc.SetStatus(res.ID, ReservationStatusCancelled)
	require.NoError(t, err)

	_, err = svc.MarkSeated(res.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatusRestrictedToStaffStates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)

	// Seating goes through MarkSeated, never through SetStatus.
	_, err = svc.SetStatus(res.ID, ReservationStatusSeated)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.SetStatus(res.ID, "inventado")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Repeating the current status succeeds without changes.
	same, err := svc.SetStatus(res.ID, ReservationStatusPending)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusPending, same.Status)
}

func TestActionTokenConsumeAndReplay(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)

	tx := db.Begin()
	tokens, err := mintActionTokens(tx, res.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)
	require.Len(t, tokens, 2)

	var confirm models.ReservationToken
	for _, tok := range tokens {
		if tok.Action == TokenActionConfirm {
			confirm = tok
		}
	}
	require.NotEmpty(t, confirm.Token)

	updated, action, already, err := svc.ConsumeActionToken(confirm.Token)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, TokenActionConfirm, action)
	assert.Equal(t, ReservationStatusConfirmed, updated.Status)

	var stored models.ReservationToken
	require.NoError(t, db.First(&stored, confirm.ID).Error)
	assert.NotNil(t, stored.ConsumedAt)

	// Replay reports the current state and changes nothing.
	replayed, action, already, err := svc.ConsumeActionToken(confirm.Token)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, TokenActionConfirm, action)
	assert.Equal(t, ReservationStatusConfirmed, replayed.Status)
}

func TestConsumeUnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)

	_, _, _, err := svc.ConsumeActionToken("deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReservationCascadesTokens(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	res, err := svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	require.NoError(t, err)

	tx := db.Begin()
	tokens, err := mintActionTokens(tx, res.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	other, err := svc.Create(guestIntent("otro@example.com", nil, nil))
	require.NoError(t, err)

	remaining, err := svc.Delete(res.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID, remaining[0].ID)

	_, _, _, err = svc.ConsumeActionToken(tokens[0].Token)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(res.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOnBlockedTableRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	blocks := NewBlockService(db)
	_, err := blocks.CreateBlock(table.ID, testDate, "18:30", "19:30")
	require.NoError(t, err)

	_, err = svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	assert.ErrorIs(t, err, ErrTableBlocked)

	// A block that ends exactly when the slot starts does not overlap.
	tableB := seedTable(t, db, "2")
	_, err = blocks.CreateBlock(tableB.ID, testDate, "18:00", "19:00")
	require.NoError(t, err)
	_, err = svc.Create(guestIntent("ana@example.com", &tableB.ID, &slot.ID))
	assert.NoError(t, err)
}

func TestWalkInOccupiesSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)
	table := seedTable(t, db, "1")
	slot := seedSlot(t, db, "19:00", "20:00")

	walkIn, err := svc.CreateWalkIn(WalkInIntent{
		TableID:   table.ID,
		SlotID:    &slot.ID,
		Date:      testDate,
		PartySize: 3,
	})
	require.NoError(t, err)
	assert.Nil(t, walkIn.ClientID)
	assert.Equal(t, ReservationStatusPending, walkIn.Status)

	_, err = svc.Create(guestIntent("ana@example.com", &table.ID, &slot.ID))
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestConcurrentCreateSameSlotOneWins(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection: SQLite shared-cache aborts overlapping write
	// transactions instead of queueing them the way MySQL row locks do.
	sqlDB.SetMaxOpenConns(1)

	svc := newTestReservationService(db)
	table := seedTable(t, db, "7")
	slot := seedSlot(t, db, "19:00", "20:00")

	start := make(chan struct{})
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		email := fmt.Sprintf("invitado%d@example.com", i)
		go func(email string) {
			<-start
			_, err := svc.Create(guestIntent(email, &table.ID, &slot.ID))
			results <- err
		}(email)
	}
	close(start)

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, ErrSlotConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent create may win the slot")
	assert.Equal(t, 1, conflicts)

	var live int64
	require.NoError(t, db.Model(&models.Reservation{}).
		Where("mesa_id = ? AND fecha_reserva = ? AND horario_id = ? AND estado <> ?",
			table.ID, testDate, slot.ID, ReservationStatusCancelled).
		Count(&live).Error)
	assert.EqualValues(t, 1, live)
}

func TestUniqueIndexBackstopOnSlot(t *testing.T) {
	db := newTestDB(t)
	table := seedTable(t, db, "7")
	slot := seedSlot(t, db, "19:00", "20:00")

	locked := true
	first := models.Reservation{
		TableID: &table.ID, SlotID: &slot.ID, Date: testDate,
		PartySize: 2, Status: ReservationStatusPending, SlotLock: &locked,
	}
	require.NoError(t, db.Create(&first).Error)

	// A write that slips past the advisory check still dies on the
	// composite unique index, and the error maps to the same conflict
	// the check reports.
	lockedAgain := true
	second := models.Reservation{
		TableID: &table.ID, SlotID: &slot.ID, Date: testDate,
		PartySize: 4, Status: ReservationStatusPending, SlotLock: &lockedAgain,
	}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, translateWriteErr(err), ErrSlotConflict)

	// NULL slot_lock exempts a row from the index, which is how
	// cancelled reservations stop occupying the triple.
	cancelled := models.Reservation{
		TableID: &table.ID, SlotID: &slot.ID, Date: testDate,
		PartySize: 2, Status: ReservationStatusCancelled,
	}
	assert.NoError(t, db.Create(&cancelled).Error)

	// Other errors pass through untranslated.
	sentinel := errors.New("otra cosa")
	assert.ErrorIs(t, translateWriteErr(sentinel), sentinel)
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(db)

	intent := guestIntent("ana@example.com", nil, nil)
	intent.PartySize = 0
	_, err := svc.Create(intent)
	assert.True(t, IsValidation(err))

	intent = guestIntent("", nil, nil)
	_, err = svc.Create(intent)
	assert.True(t, IsValidation(err))

	_, err = svc.CreateWalkIn(WalkInIntent{Date: testDate, PartySize: 2})
	assert.True(t, IsValidation(err))

	_, err = svc.Update(9999, UpdateIntent{Date: testDate, PartySize: 2})
	assert.True(t, errors.Is(err, ErrNotFound))
}
