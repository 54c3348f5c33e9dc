package usage_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/glucolog/insights/store"
	dbTest "github.com/glucolog/insights/store/test"
	"github.com/glucolog/insights/usage"
	usageTest "github.com/glucolog/insights/usage/test"
)

var _ = Describe("Usage Repository", func() {
	var repo usage.Repository
	var database *mongo.Database
	var collection *mongo.Collection

	BeforeEach(func() {
		database = dbTest.GetTestDatabase()
		collection = database.Collection(usage.CollectionName)
		lifecycle := fxtest.NewLifecycle(GinkgoT())

		var err error
		repo, err = usage.NewRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		Expect(repo).ToNot(BeNil())
		lifecycle.RequireStart()
	})

	AfterEach(func() {
		_ = collection.Drop(context.Background())
	})

	Describe("Append", func() {
		It("inserts a record and returns it with an id", func() {
			record := usageTest.RandomRecord()

			inserted, err := repo.Append(context.Background(), record)
			Expect(err).ToNot(HaveOccurred())
			Expect(inserted).ToNot(BeNil())
			Expect(inserted.Id).ToNot(BeNil())

			found, err := repo.List(context.Background(), &usage.Filter{}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].RunId).To(Equal(record.RunId))
			Expect(found[0].Model).To(Equal(record.Model))
			Expect(found[0].InputTokens).To(Equal(record.InputTokens))
			Expect(found[0].OutputTokens).To(Equal(record.OutputTokens))
			Expect(found[0].TotalTokens).To(Equal(record.TotalTokens))
			Expect(found[0].Success).To(Equal(record.Success))
			Expect(found[0].HttpStatus).To(Equal(record.HttpStatus))
			Expect(found[0].FinishReason).To(Equal(record.FinishReason))
			Expect(found[0].CreatedTime).To(BeTemporally("==", record.CreatedTime))
		})
	})

	Describe("List", func() {
		var base time.Time
		var eventId primitive.ObjectID
		var seeded []usage.Record

		BeforeEach(func() {
			base = time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
			eventId = primitive.NewObjectID()

			seeded = nil
			for i := 0; i < 5; i++ {
				record := usageTest.RandomRecord()
				record.CreatedTime = base.Add(time.Duration(i) * time.Minute)
				if i < 2 {
					record.EventId = &eventId
				}
				inserted, err := repo.Append(context.Background(), record)
				Expect(err).ToNot(HaveOccurred())
				seeded = append(seeded, *inserted)
			}
		})

		It("returns records in creation order", func() {
			found, err := repo.List(context.Background(), &usage.Filter{}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(5))
			for i, record := range found {
				Expect(record.RunId).To(Equal(seeded[i].RunId))
			}
		})

		It("filters by window with inclusive bounds", func() {
			from := base.Add(1 * time.Minute)
			to := base.Add(3 * time.Minute)
			found, err := repo.List(context.Background(), &usage.Filter{From: &from, To: &to}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(3))
			Expect(found[0].RunId).To(Equal(seeded[1].RunId))
			Expect(found[2].RunId).To(Equal(seeded[3].RunId))
		})

		It("filters by event id", func() {
			hex := eventId.Hex()
			found, err := repo.List(context.Background(), &usage.Filter{EventId: &hex}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(2))
			for _, record := range found {
				Expect(record.EventId).ToNot(BeNil())
				Expect(*record.EventId).To(Equal(eventId))
			}
		})

		It("rejects malformed event ids", func() {
			bogus := "not-an-object-id"
			_, err := repo.List(context.Background(), &usage.Filter{EventId: &bogus}, store.DefaultPagination())
			Expect(err).To(HaveOccurred())
		})

		It("applies pagination", func() {
			page := store.DefaultPagination().WithLimit(2).WithOffset(2)
			found, err := repo.List(context.Background(), &usage.Filter{}, page)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(2))
			Expect(found[0].RunId).To(Equal(seeded[2].RunId))
			Expect(found[1].RunId).To(Equal(seeded[3].RunId))
		})
	})
})
