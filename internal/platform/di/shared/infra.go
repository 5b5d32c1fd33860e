package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"cloud.google.com/go/storage"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	gcso "botparts/internal/adapters/out/gcs"
	appcfg "botparts/internal/infra/config"
	firestoreinfra "botparts/internal/infra/firestore"
)

const (
	// Secret Manager secret holding the SendGrid API key.
	// SENDGRID_API_KEY env is the local-dev override.
	sendGridSecretID = "botparts-sendgrid-api-key"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/GCS/SecretManager)
// - owns env/config-resolved runtime settings (bucket names, secrets)
//
// IMPORTANT:
// Infra must NOT depend on routers, handlers, or queries.
type Infra struct {
	// Config
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client

	// Runtime settings (resolved once)
	ProfilePhotoBucket string
	SendGridAPIKey     string
	MailFrom           string
}

// NewInfra initializes shared infra.
// Firestore is strict (return error).
// GCS, Firebase/Auth and SecretManager are best-effort (warn + continue);
// the features that need them degrade rather than block boot.
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	projectID := resolveProjectID(cfg)
	if projectID == "" {
		return nil, errors.New("shared.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GOOGLE_CLOUD_PROJECT)")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: projectID,
		MailFrom:  cfg.MailFrom,
	}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Firestore (strict)
	{
		fsw, err := firestoreinfra.NewClient(ctx, inf.ProjectID, credFile)
		if err != nil {
			return nil, fmt.Errorf("shared.infra: firestore init failed (project=%s): %w", inf.ProjectID, err)
		}
		if perr := fsw.Ping(ctx); perr != nil {
			log.Printf("[shared.infra] WARN: firestore ping failed: %v (continuing)", perr)
		}
		inf.Firestore = fsw.Client
	}

	// 2) GCS (best-effort; profile photo upload degrades without it)
	{
		var gcsClient *storage.Client
		var err error
		if len(clientOpts) > 0 {
			gcsClient, err = storage.NewClient(ctx, clientOpts...)
		} else {
			gcsClient, err = storage.NewClient(ctx)
		}
		if err != nil {
			log.Printf("[shared.infra] WARN: storage.NewClient failed: %v (profile photo upload disabled)", err)
			gcsClient = nil
		} else {
			log.Printf("[shared.infra] GCS storage client initialized")
		}
		inf.GCS = gcsClient
	}

	// 3) Firebase App/Auth (best-effort; protected routes fail closed without it)
	{
		var fbApp *firebase.App
		var err error

		fbCfg := &firebase.Config{ProjectID: inf.ProjectID}
		if len(clientOpts) > 0 {
			fbApp, err = firebase.NewApp(ctx, fbCfg, clientOpts...)
		} else {
			fbApp, err = firebase.NewApp(ctx, fbCfg)
		}
		if err != nil {
			log.Printf("[shared.infra] WARN: firebase app init failed: %v", err)
		} else {
			inf.FirebaseApp = fbApp
			authClient, err := fbApp.Auth(ctx)
			if err != nil {
				log.Printf("[shared.infra] WARN: firebase auth init failed: %v", err)
			} else {
				inf.FirebaseAuth = authClient
				log.Printf("[shared.infra] Firebase Auth initialized")
			}
		}
	}

	// 4) Secret Manager (best-effort; SENDGRID_API_KEY env is the fallback)
	{
		var sm *secretmanager.Client
		var err error
		if len(clientOpts) > 0 {
			sm, err = secretmanager.NewClient(ctx, clientOpts...)
		} else {
			sm, err = secretmanager.NewClient(ctx)
		}
		if err != nil {
			log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (falling back to env secrets)", err)
			sm = nil
		}
		inf.SecretManager = sm
	}

	// 5) Runtime settings (resolve once)
	inf.ProfilePhotoBucket = strings.TrimSpace(cfg.ProfilePhotoBucket)
	if inf.ProfilePhotoBucket == "" {
		inf.ProfilePhotoBucket = gcso.DefaultProfilePhotoBucket
	}
	inf.SendGridAPIKey = inf.resolveSendGridKey(ctx)
	if inf.SendGridAPIKey == "" {
		log.Printf("[shared.infra] WARN: SendGrid API key not resolved (order confirmation mail disabled)")
	}

	if inf.Firestore == nil {
		_ = inf.Close()
		return nil, errors.New("shared.infra: firestore client is nil after initialization (unexpected)")
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	return nil
}

// resolveSendGridKey prefers Secret Manager, then SENDGRID_API_KEY.
func (i *Infra) resolveSendGridKey(ctx context.Context) string {
	if i.SecretManager != nil {
		name := "projects/" + i.ProjectID + "/secrets/" + sendGridSecretID + "/versions/latest"
		resp, err := i.SecretManager.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err == nil && resp != nil && resp.Payload != nil {
			if key := strings.TrimSpace(string(resp.Payload.Data)); key != "" {
				log.Printf("[shared.infra] SendGrid API key resolved from Secret Manager")
				return key
			}
		}
		if err != nil {
			log.Printf("[shared.infra] WARN: AccessSecretVersion(%s) failed: %v", sendGridSecretID, err)
		}
	}
	return strings.TrimSpace(i.Config.SendGridAPIKey)
}

func resolveProjectID(cfg *appcfg.Config) string {
	// Priority:
	// 1) cfg.FirestoreProjectID (resolved by config.Load)
	// 2) FIRESTORE_PROJECT_ID
	// 3) GCP_PROJECT_ID
	// 4) GOOGLE_CLOUD_PROJECT (often set in Cloud Run)
	// 5) FIREBASE_PROJECT_ID (fallback)
	if cfg != nil {
		if v := strings.TrimSpace(cfg.FirestoreProjectID); v != "" {
			return v
		}
	}
	for _, k := range []string{
		"FIRESTORE_PROJECT_ID",
		"GCP_PROJECT_ID",
		"GOOGLE_CLOUD_PROJECT",
		"FIREBASE_PROJECT_ID",
	} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func redactPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	if len(parts) == 0 {
		return "***"
	}
	return ".../" + parts[len(parts)-1]
}
