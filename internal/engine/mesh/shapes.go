package mesh

// Quad returns the colored, textured rectangle: separate position, color and
// texture coordinate arrays plus six indices forming two triangles.
func Quad() Data {
	return Data{
		Positions: []float32{
			-0.5, -0.5, 0.0,
			-0.5, 0.5, 0.0,
			0.5, 0.5, 0.0,
			0.5, -0.5, 0.0,
		},
		Colors: []float32{
			1.0, 0.0, 0.0,
			0.0, 1.0, 0.0,
			0.0, 0.0, 1.0,
			1.0, 1.0, 0.0,
		},
		UVs: []float32{
			0.0, 0.0,
			0.0, 1.0,
			1.0, 1.0,
			1.0, 0.0,
		},
		Indices: []uint32{0, 1, 3, 2, 1, 3},
	}
}

// Cube returns a unit cube as 36 interleaved position+UV vertices, drawn
// without indices.
func Cube() Data {
	return Data{
		Layout: []Semantic{Position, UV},
		Interleaved: []float32{
			// back
			-0.5, -0.5, -0.5, 0.0, 0.0,
			0.5, -0.5, -0.5, 1.0, 0.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			-0.5, 0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 0.0,
			// front
			-0.5, -0.5, 0.5, 0.0, 0.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 1.0,
			0.5, 0.5, 0.5, 1.0, 1.0,
			-0.5, 0.5, 0.5, 0.0, 1.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			// left
			-0.5, 0.5, 0.5, 1.0, 0.0,
			-0.5, 0.5, -0.5, 1.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			-0.5, 0.5, 0.5, 1.0, 0.0,
			// right
			0.5, 0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, 0.5, 0.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			// bottom
			-0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, -0.5, 1.0, 1.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			// top
			-0.5, 0.5, -0.5, 0.0, 1.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			-0.5, 0.5, 0.5, 0.0, 0.0,
			-0.5, 0.5, -0.5, 0.0, 1.0,
		},
	}
}
