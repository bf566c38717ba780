package database

type PublicationRepository interface {
	FindPublication(articlePath, platform, contentHash string) (*Publication, error)
	ListPublications(limit int) ([]Publication, error)
	GetPublicationCount() (int, error)

	RecordPublication(p Publication) (string, error)
}

var _ PublicationRepository = (*SQLitePublicationRepository)(nil)
