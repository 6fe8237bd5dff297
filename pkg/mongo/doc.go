// Package mongo opens a MongoDB client with retries and pooling defaults
// taken from the environment, and exposes a readiness check.
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
