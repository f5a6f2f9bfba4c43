package rules

import (
	"go.mongodb.org/mongo-driver/bson"
)

// ToDocument encodes v the way the driver stores it and decodes it back into
// a bson.M, giving the field names and value types a query would see.
func ToDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
