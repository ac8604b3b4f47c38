// Package digits provides test fixtures for digit images and corpora.
//
// Images are built with a fluent Builder:
//
//	img := digits.NewBuilder(t).
//		FillColumns(13, 14).
//		Label(1).
//		Build()
//
// Corpus renders images into the text image and label streams consumed by
// pixel.GenerateCorpus.
package digits
