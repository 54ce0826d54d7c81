package blob

import "context"

// Object es el payload binario a subir (foto de la mascota).
type Object struct {
	ContentType string
	Data        []byte
}

// Store sube objetos por path y los borra por referencia (URL durable).
type Store interface {
	// Upload guarda el objeto en path y devuelve una URL durable para leerlo.
	Upload(ctx context.Context, path string, obj Object) (string, error)
	// Delete borra el objeto apuntado por ref (la URL que devolvió Upload).
	Delete(ctx context.Context, ref string) error
}
