package assert

import "fmt"

// CountInSync panics if the count index disagrees with the bucket it
// mirrors. A violation is a defect in the storage engine, never a
// caller error.
func CountInSync(count, bucketLen int, typeName string) {
	if count != bucketLen {
		panic(fmt.Sprintf("count index for %s records %d values, bucket holds %d", typeName, count, bucketLen))
	}
}
