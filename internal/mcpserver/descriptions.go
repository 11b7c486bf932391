package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key thresholds.

func describeQMOOD() string {
	return `Computes QMOOD object-oriented design metrics and quality attributes for the classes of a C++ codebase.

USE WHEN:
- Assessing the design quality of class hierarchies
- Finding classes that hurt reusability or understandability
- Comparing the design of two versions of a library
- Reviewing inheritance depth and encapsulation before a refactor

INTERPRETING RESULTS:
- Quality attributes are weighted sums of the design metrics; compare classes relative to each other
- Understandability is usually negative; lower means harder to understand
- DAM near 1.0 means data is well encapsulated (private/protected fields)
- High DCC means a class depends on many other classes
- MFA near 1.0 means most behaviour is inherited rather than declared
- ANA grows with inheritance depth; 0 for hierarchy roots
- "skipped" lists metrics that could not be computed because the class body was unavailable
- Diagnostics report unresolved base classes, inheritance cycles and missing class bodies

METRICS RETURNED:
- Design level: DSC (design size), NOH (number of hierarchies)
- Per-class: ANA, DAM, DCC, CAM, MOA, MFA, NOP, CIS, NOM
- Per-class quality: reusability, flexibility, understandability, functionality, extendibility, effectiveness
- Summary: mean, std dev, min and max of every quality attribute`
}

func describeQMOODDump() string {
	return `Computes QMOOD design metrics from a declaration dump (JSON or YAML) instead of C++ sources.

USE WHEN:
- Declarations were exported by a compiler-based tool with full type information
- Reproducing a previous analysis exactly (the result carries the input digest)
- Analyzing code the built-in C++ parser cannot handle

INTERPRETING RESULTS:
- Same metrics and attributes as analyze_qmood
- Records without a "scope" are treated as having an unavailable class body
- A parent whose "ref" names no record is reported as an unresolved parent

METRICS RETURNED:
- Design level: DSC, NOH
- Per-class: ANA, DAM, DCC, CAM, MOA, MFA, NOP, CIS, NOM and the six quality attributes
- Diagnostics and summary statistics`
}
