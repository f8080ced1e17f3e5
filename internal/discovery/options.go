package discovery

// WithHidden includes hidden directories in the scan.
func (d *Discovery) WithHidden() *Discovery {
	d.hidden = true
	return d
}

// WithExcludeDirs sets glob patterns, relative to the search path, of
// directories to skip.
func (d *Discovery) WithExcludeDirs(patterns ...string) *Discovery {
	d.excludeDirs = patterns
	return d
}

// WithMaxDepth bounds how many levels below the search path the scan descends.
func (d *Discovery) WithMaxDepth(depth int) *Discovery {
	d.maxDepth = depth
	return d
}

// WithWorkers sets the number of concurrent classification workers.
func (d *Discovery) WithWorkers(numWorkers int) *Discovery {
	if numWorkers > 0 {
		d.numWorkers = numWorkers
	}

	return d
}
