package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

const collectionInvoices = "invoices"

// InvoiceRepository implements ports.InvoiceRepository on MongoDB. Status
// changes and log appends are single-document updates, so a status is never
// visible without its history entry.
type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

// scopeFilter builds the Mongo filter for an actor's visibility scope. A
// scoped query that matches nothing is indistinguishable from a missing id.
func scopeFilter(scope ports.InvoiceScope) bson.M {
	filter := bson.M{}
	if scope.ClientID != "" {
		filter["client_id"] = scope.ClientID
	}
	if scope.SalesPersonID != "" {
		filter["sales_person_id"] = scope.SalesPersonID
	}
	return filter
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if inv.ID == "" {
		inv.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, inv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateInvoice
		}
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string, scope ports.InvoiceScope) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(scope)
	filter["_id"] = id

	var inv domain.Invoice
	if err := r.col.FindOne(ctx, filter).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, scope ports.InvoiceScope) ([]*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, scopeFilter(scope), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer cur.Close(ctx)

	return decodeInvoices(ctx, cur)
}

// SetStatus atomically sets the status field and appends the history entry
// in one update, returning the new document.
func (r *InvoiceRepository) SetStatus(ctx context.Context, id string, scope ports.InvoiceScope, status domain.InvoiceStatus, changedBy string, at time.Time) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(scope)
	filter["_id"] = id

	update := bson.M{
		"$set": bson.M{
			"status":     string(status),
			"updated_at": at,
		},
		"$push": bson.M{
			"status_history": domain.StatusHistoryEntry{
				Status:    status,
				ChangedBy: changedBy,
				ChangedAt: at,
			},
		},
	}

	var inv domain.Invoice
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("set invoice status: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) AppendCommunication(ctx context.Context, id string, comm domain.Communication) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"communications": comm},
		"$set":  bson.M{"updated_at": comm.Timestamp},
	})
	if err != nil {
		return fmt.Errorf("append communication: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) AppendNotification(ctx context.Context, id string, n domain.EmailNotification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"email_notifications": n},
	})
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// ListRemindable returns every invoice whose status is neither paid nor
// cancelled.
func (r *InvoiceRepository) ListRemindable(ctx context.Context) ([]*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"status": bson.M{"$nin": bson.A{string(domain.StatusPaid), string(domain.StatusCancelled)}}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list remindable invoices: %w", err)
	}
	defer cur.Close(ctx)

	return decodeInvoices(ctx, cur)
}

func (r *InvoiceRepository) DistinctClientIDs(ctx context.Context, salesPersonID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "client_id", bson.M{"sales_person_id": salesPersonID})
	if err != nil {
		return nil, fmt.Errorf("distinct clients: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// Stats aggregates the invoice-side dashboard figures in one pipeline. The
// account counts are filled in by the service layer.
func (r *InvoiceRepository) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"total_revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusPaid)}}, "$amount", 0},
			}},
			"paid": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusPaid)}}, 1, 0},
			}},
			"pending": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusPending)}}, 1, 0},
			}},
			"overdue": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusOverdue)}}, 1, 0},
			}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		TotalRevenue float64 `bson:"total_revenue"`
		Paid         int64   `bson:"paid"`
		Pending      int64   `bson:"pending"`
		Overdue      int64   `bson:"overdue"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode stats: %w", err)
		}
	}

	return &ports.DashboardStats{
		TotalRevenue:    row.TotalRevenue,
		TotalInvoices:   row.Paid + row.Pending + row.Overdue,
		PaidInvoices:    row.Paid,
		PendingInvoices: row.Pending,
		OverdueInvoices: row.Overdue,
	}, nil
}

func (r *InvoiceRepository) MonthlyRevenue(ctx context.Context) ([]ports.MonthlyRevenuePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": string(domain.StatusPaid)}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$updated_at"}},
			"revenue": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate monthly revenue: %w", err)
	}
	defer cur.Close(ctx)

	points := []ports.MonthlyRevenuePoint{}
	for cur.Next(ctx) {
		var row struct {
			Month   string  `bson:"_id"`
			Revenue float64 `bson:"revenue"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode monthly revenue: %w", err)
		}
		points = append(points, ports.MonthlyRevenuePoint{Month: row.Month, Revenue: row.Revenue})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly revenue: %w", err)
	}
	return points, nil
}

// EnsureIndexes creates the invoice collection indexes. The invoice number
// is sparse-unique: absence is permitted, presence must be unique.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "sales_person_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeInvoices(ctx context.Context, cur *mongo.Cursor) ([]*domain.Invoice, error) {
	invoices := []*domain.Invoice{}
	for cur.Next(ctx) {
		var inv domain.Invoice
		if err := cur.Decode(&inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}
