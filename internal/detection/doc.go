// Package detection models the board detection payload produced by the upstream
// segmentation service.
//
// The payload is decoded verbatim: every wooden board carries its physical dimensions
// (metres, cubic metres) and the detection polygon that outlines it in image-pixel space.
//
//	{
//	  "total_volume": 0.12,
//	  "total_count": 2,
//	  "wooden_boards": [
//	    {"volume": 0.05, "height": 0.02, "width": 0.15, "length": 1.2,
//	     "detection": {"confidence": 0.93, "class_name": "board",
//	                   "points": [{"x": 10, "y": 12}, ...]}}
//	  ]
//	}
//
// # Identity
//
// An AnalysisResult is immutable once decoded and is replaced wholesale when a new image is
// analyzed. Callers refer to a board by pointer into Boards (&result.Boards[i]); pointer
// equality is how "the same board" is detected across pointer events, so boards must never
// be copied out of the slice for that purpose.
//
// # Validation
//
// Decoding does not reject payloads that break the documented invariants. Validate reports
// them so the caller can decide whether to warn or refuse.
package detection
