package test

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixtures are reproducible with ginkgo's --seed
var (
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
	Rand   = rand.New(Source)
	Faker  = faker.NewWithSeed(Source)
)

func RandomObjectId() *primitive.ObjectID {
	id := primitive.NewObjectID()
	return &id
}

// RandomDaysAgo returns a UTC time between minDays and maxDays before now.
// Dates in fixtures are kept in the past so that "not in the future" checks never flake around midnight.
func RandomDaysAgo(minDays, maxDays int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -Faker.IntBetween(minDays, maxDays))
}

func RandomElement[T any](values []T) T {
	return values[Rand.Intn(len(values))]
}
