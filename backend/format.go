// Package backend dispatches an input artifact to the format-specific
// converter that turns it into a document.CanonicalDocument (spec §4.2, §6).
//
// The capability-record registry (Supports/Detect/Convert per format,
// dispatched via a fast extension-keyed map) is grounded on the teacher's
// ocr.Engine/ocr.BatchEngine pluggable-provider pattern (ocr/types.go),
// generalized from "OCR provider" to "format backend".
package backend

import "strings"

// InputFormat is a closed enumeration of every source format this module
// recognizes (spec §6, supplemented per original_source's full ~65-entry
// enum since spec.md's distillation only sketches a handful).
type InputFormat string

const (
	FormatPDF         InputFormat = "PDF"
	FormatDOCX        InputFormat = "DOCX"
	FormatDOC         InputFormat = "DOC"
	FormatPPTX        InputFormat = "PPTX"
	FormatXLSX        InputFormat = "XLSX"
	FormatHTML        InputFormat = "HTML"
	FormatCSV         InputFormat = "CSV"
	FormatMD          InputFormat = "MD"
	FormatASCIIDOC    InputFormat = "ASCIIDOC"
	FormatJATS        InputFormat = "JATS"
	FormatWEBVTT      InputFormat = "WEBVTT"
	FormatSRT         InputFormat = "SRT"
	FormatPNG         InputFormat = "PNG"
	FormatJPEG        InputFormat = "JPEG"
	FormatTIFF        InputFormat = "TIFF"
	FormatWEBP        InputFormat = "WEBP"
	FormatBMP         InputFormat = "BMP"
	FormatGIF         InputFormat = "GIF"
	FormatEPUB        InputFormat = "EPUB"
	FormatFB2         InputFormat = "FB2"
	FormatMOBI        InputFormat = "MOBI"
	FormatEML         InputFormat = "EML"
	FormatMBOX        InputFormat = "MBOX"
	FormatVCF         InputFormat = "VCF"
	FormatMSG         InputFormat = "MSG"
	FormatZIP         InputFormat = "ZIP"
	FormatTAR         InputFormat = "TAR"
	FormatSevenZ      InputFormat = "7Z"
	FormatRAR         InputFormat = "RAR"
	FormatWAV         InputFormat = "WAV"
	FormatMP3         InputFormat = "MP3"
	FormatMP4         InputFormat = "MP4"
	FormatMKV         InputFormat = "MKV"
	FormatMOV         InputFormat = "MOV"
	FormatAVI         InputFormat = "AVI"
	FormatODT         InputFormat = "ODT"
	FormatODS         InputFormat = "ODS"
	FormatODP         InputFormat = "ODP"
	FormatXPS         InputFormat = "XPS"
	FormatSVG         InputFormat = "SVG"
	FormatHEIF        InputFormat = "HEIF"
	FormatAVIF        InputFormat = "AVIF"
	FormatICS         InputFormat = "ICS"
	FormatIPYNB       InputFormat = "IPYNB"
	FormatGPX         InputFormat = "GPX"
	FormatKML         InputFormat = "KML"
	FormatKMZ         InputFormat = "KMZ"
	FormatDICOM       InputFormat = "DICOM"
	FormatRTF         InputFormat = "RTF"
	FormatSTL         InputFormat = "STL"
	FormatOBJ         InputFormat = "OBJ"
	FormatGLTF        InputFormat = "GLTF"
	FormatGLB         InputFormat = "GLB"
	FormatDXF         InputFormat = "DXF"
	FormatIDML        InputFormat = "IDML"
	FormatPUB         InputFormat = "PUB"
	FormatTEX         InputFormat = "TEX"
	FormatPAGES       InputFormat = "PAGES"
	FormatNUMBERS     InputFormat = "NUMBERS"
	FormatKEY         InputFormat = "KEY"
	FormatVSDX        InputFormat = "VSDX"
	FormatMPP         InputFormat = "MPP"
	FormatONE         InputFormat = "ONE"
	FormatMDB         InputFormat = "MDB"
	FormatJSONDocling InputFormat = "JSON_DOCLING"
)

// allFormats enumerates every InputFormat value, used for exhaustive
// round-trip checks and registry population.
var allFormats = []InputFormat{
	FormatPDF, FormatDOCX, FormatDOC, FormatPPTX, FormatXLSX, FormatHTML,
	FormatCSV, FormatMD, FormatASCIIDOC, FormatJATS, FormatWEBVTT, FormatSRT,
	FormatPNG, FormatJPEG, FormatTIFF, FormatWEBP, FormatBMP, FormatGIF,
	FormatEPUB, FormatFB2, FormatMOBI, FormatEML, FormatMBOX, FormatVCF,
	FormatMSG, FormatZIP, FormatTAR, FormatSevenZ, FormatRAR, FormatWAV,
	FormatMP3, FormatMP4, FormatMKV, FormatMOV, FormatAVI, FormatODT,
	FormatODS, FormatODP, FormatXPS, FormatSVG, FormatHEIF, FormatAVIF,
	FormatICS, FormatIPYNB, FormatGPX, FormatKML, FormatKMZ, FormatDICOM,
	FormatRTF, FormatSTL, FormatOBJ, FormatGLTF, FormatGLB, FormatDXF,
	FormatIDML, FormatPUB, FormatTEX, FormatPAGES, FormatNUMBERS, FormatKEY,
	FormatVSDX, FormatMPP, FormatONE, FormatMDB, FormatJSONDocling,
}

// AllFormats returns every recognized InputFormat.
func AllFormats() []InputFormat {
	out := make([]InputFormat, len(allFormats))
	copy(out, allFormats)
	return out
}

// extensionTable maps a normalized lowercase extension (without the leading
// dot) to its format, including multi-extension and alias entries (spec §6).
var extensionTable = map[string]InputFormat{
	"pdf": FormatPDF,
	"docx": FormatDOCX,
	"doc": FormatDOC,
	"pptx": FormatPPTX,
	"xlsx": FormatXLSX, "xlsm": FormatXLSX,
	"html": FormatHTML, "htm": FormatHTML,
	"csv": FormatCSV,
	"md": FormatMD, "markdown": FormatMD,
	"asciidoc": FormatASCIIDOC, "adoc": FormatASCIIDOC,
	"nxml": FormatJATS, "xml": FormatJATS,
	"vtt": FormatWEBVTT,
	"srt": FormatSRT,
	"png": FormatPNG,
	"jpg": FormatJPEG, "jpeg": FormatJPEG,
	"tif": FormatTIFF, "tiff": FormatTIFF,
	"webp": FormatWEBP,
	"bmp": FormatBMP,
	"gif": FormatGIF,
	"epub": FormatEPUB,
	"fb2": FormatFB2,
	"mobi": FormatMOBI, "prc": FormatMOBI, "azw": FormatMOBI,
	"eml": FormatEML,
	"mbox": FormatMBOX, "mbx": FormatMBOX,
	"vcf": FormatVCF, "vcard": FormatVCF,
	"msg": FormatMSG,
	"zip": FormatZIP,
	"tar": FormatTAR, "tgz": FormatTAR, "tbz2": FormatTAR, "tbz": FormatTAR,
	"7z": FormatSevenZ,
	"rar": FormatRAR,
	"wav": FormatWAV,
	"mp3": FormatMP3,
	"mp4": FormatMP4, "m4v": FormatMP4,
	"mkv": FormatMKV,
	"mov": FormatMOV, "qt": FormatMOV,
	"avi": FormatAVI,
	"odt": FormatODT,
	"ods": FormatODS,
	"odp": FormatODP,
	"xps": FormatXPS, "oxps": FormatXPS,
	"svg": FormatSVG,
	"heif": FormatHEIF, "heic": FormatHEIF,
	"avif": FormatAVIF,
	"ics": FormatICS, "ical": FormatICS,
	"ipynb": FormatIPYNB,
	"gpx": FormatGPX,
	"kml": FormatKML,
	"kmz": FormatKMZ,
	"dcm": FormatDICOM, "dicom": FormatDICOM,
	"rtf": FormatRTF,
	"stl": FormatSTL,
	"obj": FormatOBJ,
	"gltf": FormatGLTF,
	"glb": FormatGLB,
	"dxf": FormatDXF,
	"idml": FormatIDML,
	"pub": FormatPUB,
	"tex": FormatTEX, "latex": FormatTEX,
	"pages": FormatPAGES,
	"numbers": FormatNUMBERS,
	"key": FormatKEY,
	"vsdx": FormatVSDX,
	"mpp": FormatMPP,
	"one": FormatONE,
	"mdb": FormatMDB, "accdb": FormatMDB,
	"json": FormatJSONDocling,
}

// compoundExtensions resolves multi-part extensions (e.g. "tar.gz") that a
// single-segment lookup on "gz"/"bz2" alone cannot disambiguate from a
// plain compressed-but-not-archived file (spec §6).
var compoundExtensions = map[string]InputFormat{
	"tar.gz":  FormatTAR,
	"tar.bz2": FormatTAR,
}

// FromExtension resolves a filename to its InputFormat via extension
// lookup. Compound extensions like ".tar.gz" are checked first against the
// full lowercase path before falling back to the final segment (spec §6).
func FromExtension(filename string) (InputFormat, bool) {
	lower := strings.ToLower(filename)
	for suffix, fmt := range compoundExtensions {
		if strings.HasSuffix(lower, "."+suffix) {
			return fmt, true
		}
	}
	idx := strings.LastIndex(lower, ".")
	if idx < 0 {
		return "", false
	}
	ext := lower[idx+1:]
	fmtVal, ok := extensionTable[ext]
	return fmtVal, ok
}

// aliasTable maps recognized lowercase/alias strings to their canonical
// format for case-insensitive parsing (spec §6: "jpg"->JPEG, "htm"->HTML,
// "markdown"->MD, etc., in addition to the canonical uppercase name).
var aliasTable = map[string]InputFormat{
	"markdown": FormatMD,
	"jpg":      FormatJPEG,
	"htm":      FormatHTML,
	"tif":      FormatTIFF,
	"adoc":     FormatASCIIDOC,
	"jpeg2":    FormatJPEG,
}

// ParseInputFormat parses s (case-insensitively) into an InputFormat,
// accepting the canonical uppercase name, its lowercase form, or a
// recognized alias (spec §6).
func ParseInputFormat(s string) (InputFormat, bool) {
	upper := InputFormat(strings.ToUpper(s))
	for _, f := range allFormats {
		if f == upper {
			return f, true
		}
	}
	if f, ok := aliasTable[strings.ToLower(s)]; ok {
		return f, true
	}
	return "", false
}

// String renders the canonical uppercase form, round-trippable through
// ParseInputFormat (spec §8: InputFormat::from_str(fmt.to_string()) ==
// Ok(fmt) for every enum value).
func (f InputFormat) String() string { return string(f) }

func (f InputFormat) IsImage() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatTIFF, FormatWEBP, FormatBMP, FormatGIF, FormatHEIF, FormatAVIF:
		return true
	}
	return false
}

func (f InputFormat) IsDocument() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatDOC, FormatPPTX, FormatXLSX, FormatHTML, FormatMD, FormatASCIIDOC, FormatRTF:
		return true
	}
	return false
}

func (f InputFormat) IsEbook() bool {
	switch f {
	case FormatEPUB, FormatFB2, FormatMOBI:
		return true
	}
	return false
}

func (f InputFormat) IsEmail() bool {
	switch f {
	case FormatEML, FormatMBOX, FormatVCF, FormatMSG:
		return true
	}
	return false
}

func (f InputFormat) IsArchive() bool {
	switch f {
	case FormatZIP, FormatTAR, FormatSevenZ, FormatRAR:
		return true
	}
	return false
}

func (f InputFormat) IsOfficeOpenXML() bool {
	switch f {
	case FormatDOCX, FormatPPTX, FormatXLSX:
		return true
	}
	return false
}

func (f InputFormat) IsOpenDocument() bool {
	switch f {
	case FormatODT, FormatODS, FormatODP:
		return true
	}
	return false
}
