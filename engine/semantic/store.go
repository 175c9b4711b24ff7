// Package semantic mirrors the catalog's embedding matrix into a Qdrant
// collection so external consumers (analytics, other services) can run
// similarity search without loading the catalog. The in-process chat path
// never reads from here; it scores the in-memory matrix directly.
package semantic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/CartWise/cartwise-mvp/engine/domain"
)

// Store owns all Qdrant operations for the product mirror.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// New connects to Qdrant at the given gRPC address.
func New(addr, collection string) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (s *Store) EnsureCollection(ctx context.Context, dims int) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", s.collection, err)
	}
	return nil
}

// DeleteCollection drops the mirror collection.
func (s *Store) DeleteCollection(ctx context.Context) error {
	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection})
	if err != nil {
		return fmt.Errorf("semantic: delete collection %s: %w", s.collection, err)
	}
	return nil
}

// UpsertProducts writes one point per product. Point ids are deterministic
// UUIDs derived from the product id, so re-running the mirror is idempotent.
func (s *Store) UpsertProducts(ctx context.Context, products []domain.Product, matrix [][]float32) error {
	if len(products) != len(matrix) {
		return fmt.Errorf("semantic: %d products but %d vectors", len(products), len(matrix))
	}
	if len(products) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(products))
	for i, p := range products {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(p.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: matrix[i]},
				},
			},
			Payload: map[string]*pb.Value{
				"product_id": {Kind: &pb.Value_StringValue{StringValue: p.ID}},
				"title":      {Kind: &pb.Value_StringValue{StringValue: p.Title}},
				"category":   {Kind: &pb.Value_StringValue{StringValue: p.Category}},
				"price":      {Kind: &pb.Value_DoubleValue{DoubleValue: p.Price}},
				"rating":     {Kind: &pb.Value_DoubleValue{DoubleValue: p.Rating}},
			},
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search runs k-NN similarity search against the mirror, optionally
// filtered by category.
func (s *Store) Search(ctx context.Context, vector []float32, topK int, category string) ([]Hit, error) {
	req := &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if category != "" {
		req.Filter = &pb.Filter{
			Must: []*pb.Condition{{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key:   "category",
						Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: category}},
					},
				},
			}},
		}
	}

	resp, err := s.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	hits := make([]Hit, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		h := Hit{Score: r.GetScore()}
		payload := r.GetPayload()
		h.ProductID = payload["product_id"].GetStringValue()
		h.Title = payload["title"].GetStringValue()
		h.Category = payload["category"].GetStringValue()
		h.Price = payload["price"].GetDoubleValue()
		h.Rating = payload["rating"].GetDoubleValue()
		hits[i] = h
	}
	return hits, nil
}

// PointID derives the deterministic point UUID for a product id.
func PointID(productID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cartwise-product-"+productID)).String()
}
