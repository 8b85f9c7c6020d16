package forecast

// ArtifactStore persists and loads per-route model artifacts. Implementations
// must write atomically: a concurrent reader sees either the previous complete
// artifact or the new one, never a partial write.
type ArtifactStore interface {
	// Save persists the model and its metadata for the model's route.
	Save(m *RouteModel, meta *Metadata) error
	// Load returns the persisted model and metadata for the route. A missing
	// artifact yields *UnknownRouteError, an unreadable one
	// *ArtifactCorruptionError.
	Load(routeID string) (*RouteModel, *Metadata, error)
}
