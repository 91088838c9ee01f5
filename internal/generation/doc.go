// Package generation is the boundary between the card service and language
// model backends. It defines the Generator interface used to produce example
// sentences for cards, plus the errors backends report.
package generation
