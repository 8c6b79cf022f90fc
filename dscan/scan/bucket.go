package scan

// bucketBySize groups descriptors by exact byte size in a single pass and
// drops every bucket with fewer than two members: a file with a unique size
// cannot have a duplicate.
func bucketBySize(files []FileDescriptor) map[int64][]FileDescriptor {
	buckets := make(map[int64][]FileDescriptor)
	for _, fd := range files {
		buckets[fd.Size] = append(buckets[fd.Size], fd)
	}
	for size, members := range buckets {
		if len(members) < 2 {
			delete(buckets, size)
		}
	}
	return buckets
}
