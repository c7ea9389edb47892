package messaging

const (
	// ProductsSubjects matches every product subject; used to bind the JetStream stream.
	ProductsSubjects = "products.>"

	ProductsCreatedSubject = "products.created"
	ProductsUpdatedSubject = "products.updated"
	ProductsDeletedSubject = "products.deleted"
)
