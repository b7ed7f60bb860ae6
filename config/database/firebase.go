package database

import (
	"CafeMaemi/config/environment"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// Firebase bundles the clients the server needs from one Firebase project.
type Firebase struct {
	App       *firebase.App
	Firestore *firestore.Client
	Bucket    *gcs.BucketHandle
	// BucketName is needed to build download URLs.
	BucketName string
}

// InitFirebase initializes Firestore and the Storage bucket from base64 credentials.
func InitFirebase(ctx context.Context, cfg environment.FirebaseConfig, logger *slog.Logger) (*Firebase, error) {
	if cfg.CredentialsBase64 == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_BASE64 environment variable is missing")
	}

	decodedCredentials, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Firebase credentials: %w", err)
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID environment variable is missing")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, option.WithCredentialsJSON(decodedCredentials))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	logger.Info("firebase firestore initialized", "project_id", cfg.ProjectID)

	storageClient, err := app.Storage(ctx)
	if err != nil {
		firestoreClient.Close()
		return nil, fmt.Errorf("failed to create Firebase Storage client: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		firestoreClient.Close()
		return nil, fmt.Errorf("failed to open storage bucket %q: %w", cfg.StorageBucket, err)
	}
	logger.Info("firebase storage initialized", "bucket", cfg.StorageBucket)

	return &Firebase{
		App:        app,
		Firestore:  firestoreClient,
		Bucket:     bucket,
		BucketName: cfg.StorageBucket,
	}, nil
}
