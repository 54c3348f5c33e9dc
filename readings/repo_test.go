package readings_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/glucolog/insights/errors"
	"github.com/glucolog/insights/readings"
	readingsTest "github.com/glucolog/insights/readings/test"
	"github.com/glucolog/insights/store"
	dbTest "github.com/glucolog/insights/store/test"
)

var _ = Describe("Readings Repository", func() {
	var repo readings.Repository
	var database *mongo.Database
	var collection *mongo.Collection

	BeforeEach(func() {
		database = dbTest.GetTestDatabase()
		collection = database.Collection(readings.CollectionName)
		lifecycle := fxtest.NewLifecycle(GinkgoT())

		var err error
		repo, err = readings.NewRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		Expect(repo).ToNot(BeNil())
		lifecycle.RequireStart()
	})

	AfterEach(func() {
		_ = collection.Drop(context.Background())
	})

	Describe("Create", func() {
		It("inserts a reading and returns it with an id", func() {
			reading := readingsTest.RandomReading()

			created, err := repo.Create(context.Background(), reading)
			Expect(err).ToNot(HaveOccurred())
			Expect(created).ToNot(BeNil())
			Expect(created.Id).ToNot(BeNil())
			Expect(created.Value).To(Equal(reading.Value))
			Expect(created.Time).To(BeTemporally("==", reading.Time))
		})

		It("rejects a second reading with the same timestamp", func() {
			reading := readingsTest.RandomReading()

			_, err := repo.Create(context.Background(), reading)
			Expect(err).ToNot(HaveOccurred())

			duplicate := readingsTest.RandomReading()
			duplicate.Time = reading.Time
			_, err = repo.Create(context.Background(), duplicate)
			Expect(err).To(MatchError(readings.ErrDuplicate))
			Expect(err).To(MatchError(errors.Duplicate))
		})
	})

	Describe("CreateMany", func() {
		It("inserts a batch of readings", func() {
			batch := readingsTest.RandomSeries(time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour), 5)

			created, err := repo.CreateMany(context.Background(), batch)
			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(5))
		})

		It("skips duplicate timestamps without aborting the batch", func() {
			start := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
			batch := readingsTest.RandomSeries(start, 5)

			_, err := repo.Create(context.Background(), batch[2])
			Expect(err).ToNot(HaveOccurred())

			created, err := repo.CreateMany(context.Background(), batch)
			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(4))

			window, err := repo.InWindow(context.Background(), start, start.Add(time.Hour))
			Expect(err).ToNot(HaveOccurred())
			Expect(window).To(HaveLen(5))
		})

		It("accepts an empty batch", func() {
			created, err := repo.CreateMany(context.Background(), nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(BeZero())
		})
	})

	Describe("InWindow", func() {
		var base time.Time

		BeforeEach(func() {
			base = time.Now().UTC().Truncate(time.Millisecond).Add(-2 * time.Hour)
			batch := readingsTest.RandomSeries(base, 5)
			created, err := repo.CreateMany(context.Background(), batch)
			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(5))
		})

		It("includes readings exactly on the window bounds", func() {
			window, err := repo.InWindow(context.Background(), base.Add(5*time.Minute), base.Add(15*time.Minute))
			Expect(err).ToNot(HaveOccurred())
			Expect(window).To(HaveLen(3))
		})

		It("returns nothing outside the window", func() {
			window, err := repo.InWindow(context.Background(), base.Add(-time.Hour), base.Add(-time.Minute))
			Expect(err).ToNot(HaveOccurred())
			Expect(window).To(BeEmpty())
		})
	})

	Describe("List", func() {
		var base time.Time

		BeforeEach(func() {
			base = time.Now().UTC().Truncate(time.Millisecond).Add(-2 * time.Hour)
			batch := readingsTest.RandomSeries(base, 5)
			created, err := repo.CreateMany(context.Background(), batch)
			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(5))
		})

		It("returns readings newest first", func() {
			found, err := repo.List(context.Background(), &readings.Filter{}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(5))
			Expect(found[0].Time).To(BeTemporally("==", base.Add(20*time.Minute)))
			Expect(found[4].Time).To(BeTemporally("==", base))
		})

		It("filters by time range", func() {
			from := base.Add(10 * time.Minute)
			found, err := repo.List(context.Background(), &readings.Filter{From: &from}, store.DefaultPagination())
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(3))
		})

		It("applies pagination", func() {
			page := store.DefaultPagination().WithLimit(2).WithOffset(1)
			found, err := repo.List(context.Background(), &readings.Filter{}, page)
			Expect(err).ToNot(HaveOccurred())
			Expect(found).To(HaveLen(2))
			Expect(found[0].Time).To(BeTemporally("==", base.Add(15*time.Minute)))
		})
	})
})
