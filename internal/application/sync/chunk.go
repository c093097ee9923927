package sync

// DefaultBatchSize es el tamaño de lote por defecto para los feeds de
// exportación (listings por envío).
const DefaultBatchSize = 1000

// Chunk parte items en grupos de a lo sumo size elementos, preservando el
// orden de iteración. Con size <= 0 devuelve un único grupo.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(items)
	}
	var groups [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		groups = append(groups, items[start:end])
	}
	return groups
}
