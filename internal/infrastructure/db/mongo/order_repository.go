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

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

const collectionOrders = "orders"

// OrderRepository implements ports.OrderRepository on MongoDB. It holds the
// database rather than a single collection because the stock reservation
// spans the orders and products collections in one transaction.
type OrderRepository struct {
	db *mongo.Database
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderItemDoc struct {
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	UnitPrice float64            `bson:"unit_price"`
	Subtotal  float64            `bson:"subtotal"`
}

type orderDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id"`
	Items         []orderItemDoc     `bson:"items"`
	SubTotal      float64            `bson:"sub_total"`
	IVA           float64            `bson:"iva"`
	Total         float64            `bson:"total"`
	TotalProducts int                `bson:"total_products"`
	PaymentMethod string             `bson:"payment_method"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
}

type ownerDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
}

// orderWithOwner is the aggregation result shape after the users $lookup.
type orderWithOwner struct {
	orderDoc `bson:",inline"`
	Owner    []ownerDoc `bson:"owner"`
}

func (d orderDoc) toDomain() domain.Order {
	items := make([]domain.OrderItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}
	return domain.Order{
		ID:            d.ID.Hex(),
		UserID:        d.UserID.Hex(),
		Items:         items,
		SubTotal:      d.SubTotal,
		IVA:           d.IVA,
		Total:         d.Total,
		TotalProducts: d.TotalProducts,
		PaymentMethod: d.PaymentMethod,
		Status:        domain.OrderStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}
}

func (d orderWithOwner) toDomain() domain.Order {
	order := d.orderDoc.toDomain()
	if len(d.Owner) > 0 {
		order.Owner = &domain.OrderOwner{
			ID:       d.Owner[0].ID.Hex(),
			Username: d.Owner[0].Username,
			Email:    d.Owner[0].Email,
		}
	}
	return order
}

func toOrderDoc(o *domain.Order) (orderDoc, error) {
	userID, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return orderDoc{}, fmt.Errorf("invalid order owner id %q: %w", o.UserID, err)
	}

	items := make([]orderItemDoc, len(o.Items))
	for i, item := range o.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return orderDoc{}, domain.ErrProductNotFound
		}
		items[i] = orderItemDoc{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}

	return orderDoc{
		UserID:        userID,
		Items:         items,
		SubTotal:      o.SubTotal,
		IVA:           o.IVA,
		Total:         o.Total,
		TotalProducts: o.TotalProducts,
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}, nil
}

// CreateWithReservation reserves stock and inserts the order inside a single
// transaction. Each decrement is conditional: quantity must still cover
// the requested amount at write time, so two concurrent orders can never
// both drain the same stock. Any failed reservation aborts the transaction
// leaving stock and orders untouched.
func (r *OrderRepository) CreateWithReservation(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	doc, err := toOrderDoc(o)
	if err != nil {
		return nil, err
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	products := r.db.Collection(collectionProducts)
	orders := r.db.Collection(collectionOrders)

	insertedID, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for i, item := range doc.Items {
			res, err := products.UpdateOne(sc,
				bson.M{"_id": item.ProductID, "quantity": bson.M{"$gte": item.Quantity}},
				bson.M{"$inc": bson.M{"quantity": -item.Quantity}},
			)
			if err != nil {
				return nil, fmt.Errorf("reserve stock: %w", err)
			}
			if res.MatchedCount == 0 {
				// No document matched: the product is gone or its stock ran
				// out since validation. Distinguish the two for the caller.
				var pd productDoc
				findErr := products.FindOne(sc, bson.M{"_id": item.ProductID}).Decode(&pd)
				if errors.Is(findErr, mongo.ErrNoDocuments) {
					return nil, domain.ErrProductNotFound
				}
				if findErr != nil {
					return nil, fmt.Errorf("reserve stock: %w", findErr)
				}
				return nil, &domain.InsufficientStockError{
					ProductName: pd.Name,
					Available:   pd.Quantity,
					Requested:   o.Items[i].Quantity,
				}
			}
		}

		res, err := orders.InsertOne(sc, doc)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		return res.InsertedID, nil
	})
	if err != nil {
		return nil, err
	}

	created := *o
	created.ID = insertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// ownerLookup joins the owning user onto each order.
var ownerLookup = bson.D{{Key: "$lookup", Value: bson.M{
	"from":         collectionUsers,
	"localField":   "user_id",
	"foreignField": "_id",
	"as":           "owner",
}}}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": oid}}},
		ownerLookup,
	}

	results, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return &results[0], nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.Order{}, nil
	}

	cur, err := r.db.Collection(collectionOrders).Find(ctx, bson.M{"user_id": oid})
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []domain.Order{}
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, doc.toDomain())
	}
	return orders, cur.Err()
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.aggregate(ctx, mongo.Pipeline{ownerLookup})
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDoc
	err = r.db.Collection(collectionOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status)}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order := doc.toDomain()
	return &order, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.db.Collection(collectionOrders).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]domain.Order, error) {
	cur, err := r.db.Collection(collectionOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []domain.Order{}
	for cur.Next(ctx) {
		var doc orderWithOwner
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, doc.toDomain())
	}
	return orders, cur.Err()
}

// EnsureIndexes creates the owner index used by per-user listings.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.db.Collection(collectionOrders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}
