package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/smartworkshop/workshopcost/pkg/log"
	"github.com/smartworkshop/workshopcost/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreProvider implements the Database interface using Google Cloud Firestore.
// Each workshop is a document under "workshops" with "machines" and "config"
// subcollections.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
	workshop  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")
	workshop := lflag.String("firestore-workshop", "default", "Workshop document holding the machines and tariff")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database
		f.workshop = *workshop

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID can be inferred but the workshop cannot.
	if f.workshop == "" {
		return fmt.Errorf("firestore workshop cannot be empty")
	}
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) getCollection(name string) *firestore.CollectionRef {
	return f.client.Collection("workshops").Doc(f.workshop).Collection(name)
}

// GetTariff retrieves the tariff from the "config/tariff" document.
func (f *FirestoreProvider) GetTariff(ctx context.Context) (types.Tariff, error) {
	doc, err := f.getCollection("config").Doc("tariff").Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.DefaultTariff(), nil
		}
		return types.Tariff{}, fmt.Errorf("failed to fetch tariff doc: %w", err)
	}

	var t types.Tariff
	if err := unmarshalJSONField(doc, &t); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "invalid tariff doc", slog.String("workshop", f.workshop), slog.Any("err", err))
		return types.Tariff{}, err
	}
	return t, nil
}

// SetTariff replaces the "config/tariff" document.
func (f *FirestoreProvider) SetTariff(ctx context.Context, tariff types.Tariff) error {
	jsonBytes, err := json.Marshal(tariff)
	if err != nil {
		return fmt.Errorf("failed to marshal tariff: %w", err)
	}
	_, err = f.getCollection("config").Doc("tariff").Set(ctx, map[string]interface{}{
		"json": string(jsonBytes),
	})
	if err != nil {
		return fmt.Errorf("failed to save tariff: %w", err)
	}
	return nil
}

// ListMachines returns every machine ordered by when it was added.
func (f *FirestoreProvider) ListMachines(ctx context.Context) ([]types.Machine, error) {
	iter := f.getCollection("machines").
		OrderBy("createdAt", firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var machines []types.Machine
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating machines: %w", err)
		}

		var m types.Machine
		if err := unmarshalJSONField(doc, &m); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "invalid machine doc", slog.String("machineID", doc.Ref.ID), slog.String("workshop", f.workshop), slog.Any("err", err))
			return nil, err
		}
		machines = append(machines, m)
	}
	return machines, nil
}

// AddMachine creates a new document in the "machines" collection keyed by the
// machine ID.
func (f *FirestoreProvider) AddMachine(ctx context.Context, machine types.Machine) error {
	if machine.ID == "" {
		return errEmptyID
	}
	jsonBytes, err := json.Marshal(machine)
	if err != nil {
		return fmt.Errorf("failed to marshal machine: %w", err)
	}
	_, err = f.getCollection("machines").Doc(machine.ID).Create(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"createdAt": time.Now().UTC(),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: %s", ErrMachineExists, machine.ID)
		}
		return fmt.Errorf("failed to add machine: %w", err)
	}
	return nil
}

// RemoveMachine deletes the machine's document. It fails with
// ErrMachineNotFound if the document does not exist.
func (f *FirestoreProvider) RemoveMachine(ctx context.Context, id string) error {
	if id == "" {
		return errEmptyID
	}
	_, err := f.getCollection("machines").Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%w: %s", ErrMachineNotFound, id)
		}
		return fmt.Errorf("failed to remove machine: %w", err)
	}
	return nil
}

func unmarshalJSONField(doc *firestore.DocumentSnapshot, v any) error {
	val, err := doc.DataAt("json")
	if err != nil {
		return fmt.Errorf("document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		return fmt.Errorf("document %s 'json' field is not a string", doc.Ref.ID)
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to unmarshal document %s: %w", doc.Ref.ID, err)
	}
	return nil
}
