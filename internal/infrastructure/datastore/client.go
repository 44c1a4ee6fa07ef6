package datastore

import (
	"context"

	gds "cloud.google.com/go/datastore"
	"google.golang.org/api/option"
)

// NewClient creates a Cloud Datastore client. If credsPath is empty, ADC is used.
// DATASTORE_EMULATOR_HOST is honoured by the client library itself.
func NewClient(ctx context.Context, projectID, credsPath string) (*gds.Client, error) {
	if projectID == "" {
		projectID = gds.DetectProjectID
	}
	if credsPath == "" {
		return gds.NewClient(ctx, projectID)
	}
	return gds.NewClient(ctx, projectID, option.WithCredentialsFile(credsPath))
}
