package mongo_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func startMongo(ctx context.Context) (*mongodb.MongoDBContainer, string, error) {
	container, err := mongodb.Run(ctx, "mongo:7.0", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		return nil, "", fmt.Errorf("mongodb.Run: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}
	if !strings.Contains(uri, "directConnection") {
		sep := "?"
		if strings.Contains(uri, "?") {
			sep = "&"
		}
		uri += sep + "directConnection=true"
	}
	return container, uri, nil
}
