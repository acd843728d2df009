package inkwell

// GenericRepository is the storage contract the Mongo repository satisfies.
// Services should depend on this (or a domain-specific narrowing of it)
// rather than on the concrete repository.
type GenericRepository[T Document] interface {
	FindById(id string) (T, error)
	Save(doc T) error
	SaveAll(docs []T) error
	SaveOrUpdate(doc T) error
	Delete(id string) error
	DeleteByFilters(filters map[string]interface{}) error
	Find(query Query) ([]T, error)
	Count(filters map[string]interface{}) (int64, error)
	FindOneAndUpdate(filters map[string]interface{}, update interface{}) (T, error)
}
