package test

import (
	"context"
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/wardbook/records/store"
	"github.com/wardbook/records/test"
)

const (
	defaultMongoTestHost = "mongodb://127.0.0.1:27017"
	mongoTimeout         = time.Second * 5
)

var (
	database *mongo.Database
)

// StoreUri is the address of the mongo instance used by the specs
func StoreUri() string {
	if host := os.Getenv("HOSPITAL_TEST_STORE_URI"); host != "" {
		return host
	}
	return defaultMongoTestHost
}

// SetupDatabase connects to the test mongo instance. Specs that need the database call
// GetTestDatabase, which skips them when no instance is reachable.
func SetupDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := store.NewClient(ctx, StoreUri())
	Expect(err).ToNot(HaveOccurred())

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return
	}

	databaseName := fmt.Sprintf("hospital_test_%s_%d", test.Faker.Lorem().Word(), GinkgoParallelProcess())
	database = client.Database(databaseName)
}

func TeardownDatabase() {
	if database == nil {
		return
	}
	err := database.Drop(context.Background())
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	Expect(database.Client().Disconnect(ctx)).ToNot(HaveOccurred())
	database = nil
}

func GetTestDatabase() *mongo.Database {
	if database == nil {
		Skip("mongo is not reachable at " + StoreUri())
	}
	return database
}

// GetTestConnector returns a connector bound to the test database. Call Initialize on it
// after the repositories under test registered their indexes.
func GetTestConnector() *store.Connector {
	return store.NewConnectorWithDatabase(GetTestDatabase(), zap.NewNop().Sugar())
}
