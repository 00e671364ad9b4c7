package axis

// resolveOverlaps decides ShowLabel for lines, which must be ordered by X.
//
// The first and last lines are always shown. Boundary lines are preferred over
// ordinary ones: a boundary evicts earlier ordinary labels it collides with,
// and yields to an earlier boundary. Every pair of adjacent shown labels is at
// least spacing apart, unless the first and last lines themselves are closer
// than spacing.
func resolveOverlaps(lines []Line, spacing float64) {
	if len(lines) == 0 {
		return
	}
	last := len(lines) - 1

	shown := make([]int, 0, len(lines))
	conflicts := func(i int) bool {
		return len(shown) > 0 && lines[i].X-lines[shown[len(shown)-1]].X < spacing
	}

	for i := range lines {
		lines[i].ShowLabel = false
		if !conflicts(i) {
			shown = append(shown, i)
			continue
		}

		switch {
		case i == last:
			for conflicts(i) && shown[len(shown)-1] != 0 {
				shown = shown[:len(shown)-1]
			}
			shown = append(shown, i)
		case lines[i].Boundary:
			for conflicts(i) {
				top := shown[len(shown)-1]
				if top == 0 || lines[top].Boundary {
					break
				}
				shown = shown[:len(shown)-1]
			}
			if !conflicts(i) {
				shown = append(shown, i)
			}
		}
	}

	for _, i := range shown {
		lines[i].ShowLabel = true
	}
}
