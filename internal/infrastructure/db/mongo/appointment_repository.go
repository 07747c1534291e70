package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

const collectionAppointments = "appointments"

// activeStatuses are the states that occupy a slot. The partial unique index
// below only covers documents in these states, so cancelled and completed
// appointments release their slot.
var activeStatuses = []string{string(domain.StatusPending), string(domain.StatusConfirmed)}

// AppointmentRepository implements ports.AppointmentRepository on MongoDB.
// Slot exclusivity relies on the uniq_active_slot index: the insert itself is
// the check-and-reserve, so the guarantee holds across replicas.
type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

// EnsureIndexes creates the indexes the repository depends on. The partial
// unique index on (date, time) is load-bearing: without it concurrent
// bookings could double-reserve a slot.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": activeStatuses}}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new appointment. A duplicate-key failure on the slot index
// means another pending/confirmed appointment already holds the (date, time)
// pair.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotUnavailable
		}
		return err
	}
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Appointment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateStatus sets the status in a single conditional document update. The
// filter pins the status observed by the caller, so a concurrent writer that
// moved the record first makes this write a no-match instead of clobbering it.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	filter := bson.M{"_id": id, "status": string(from)}
	update := bson.M{"$set": bson.M{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// SetOrder records the gateway order reference on an unpaid appointment.
func (r *AppointmentRepository) SetOrder(ctx context.Context, id, orderID string, amount float64) (*domain.Appointment, error) {
	filter := bson.M{"_id": id, "is_paid": false}
	update := bson.M{"$set": bson.M{
		"order_id":   orderID,
		"amount":     amount,
		"updated_at": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// MarkPaid flips is_paid, records the payment reference and forces the status
// to confirmed in a single document update, keeping the paid-implies-confirmed
// invariant under concurrent writers.
func (r *AppointmentRepository) MarkPaid(ctx context.Context, id, paymentID string) (*domain.Appointment, error) {
	update := bson.M{"$set": bson.M{
		"is_paid":    true,
		"payment_id": paymentID,
		"status":     string(domain.StatusConfirmed),
		"updated_at": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *AppointmentRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a domain.Appointment
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns a page of appointments and the total count over the filtered
// set. Ordering is deterministic: the requested sort key tie-broken by _id.
func (r *AppointmentRepository) List(ctx context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if filter.DateFrom != "" {
		dateRange["$gte"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		dateRange["$lte"] = filter.DateTo
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"patient_name": pattern},
			bson.M{"patient_email": pattern},
			bson.M{"patient_phone": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	dir := -1
	if filter.SortOrder == "asc" {
		dir = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []*domain.Appointment
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *AppointmentRepository) FindByDate(ctx context.Context, date string) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*domain.Appointment
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// BookedSlots returns the time labels currently reserved on a date.
func (r *AppointmentRepository) BookedSlots(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"date": date, "status": bson.M{"$in": activeStatuses}}
	raw, err := r.col.Distinct(ctx, "time", filter)
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			slots = append(slots, s)
		}
	}
	return slots, nil
}

func (r *AppointmentRepository) Stats(ctx context.Context, today, yesterday string) (*ports.AppointmentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.AppointmentStats{}
	counts := []struct {
		dst    *int64
		filter bson.M
	}{
		{&stats.Total, bson.M{}},
		{&stats.Pending, bson.M{"status": string(domain.StatusPending)}},
		{&stats.Confirmed, bson.M{"status": string(domain.StatusConfirmed)}},
		{&stats.Cancelled, bson.M{"status": string(domain.StatusCancelled)}},
		{&stats.Completed, bson.M{"status": string(domain.StatusCompleted)}},
		{&stats.Today, bson.M{"date": today}},
		{&stats.Yesterday, bson.M{"date": yesterday}},
		{&stats.Paid, bson.M{"is_paid": true}},
		{&stats.Unpaid, bson.M{"is_paid": false}},
	}

	for _, c := range counts {
		n, err := r.col.CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}
