package inkwell

import "reflect"

// getDocumentID returns the ID value of a document using reflection.
// It looks for a field tagged `inkwell:"id"` and falls back to a field
// named ID.
func getDocumentID(doc interface{}) string {
	val := reflect.ValueOf(doc)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if tag := field.Tag.Get("inkwell"); tag == "id" {
			return val.Field(i).String()
		}
	}

	if idField := val.FieldByName("ID"); idField.IsValid() {
		return idField.String()
	}

	return ""
}
