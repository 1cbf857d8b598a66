package database

// Repository interfaces mirror the concrete repositories so handlers and
// the pipeline can be tested with fakes.

type UserRepo interface {
	GetUserByAccessKey(accessKey string) (*User, error)
}

type CredentialRepo interface {
	GetCredentials(userID string) (map[string]string, error)
	UpsertCredential(userID, service, apiKey string) error
}

type GenerationRepo interface {
	InsertGeneration(gen Generation) error
}
