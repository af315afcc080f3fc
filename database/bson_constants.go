package database

// Opérateurs et champs MongoDB (évite les littéraux dupliqués)
const (
	BSONSet      = "$set"
	BSONID       = "_id"
	BSONIsActive = "isActive"
	BSONEmail    = "email"
)
