package board

// standardLayout is the 8-fold symmetric premium pattern of the classic
// board.  T and D are triple and double word cells, t and d are triple and
// double letter cells.  The center cell is a double word cell.
var standardLayout = [Size]string{
	"T..d...T...d..T",
	".D...t...t...D.",
	"..D...d.d...D..",
	"d..D...d...D..d",
	"....D.....D....",
	".t...t...t...t.",
	"..d...d.d...d..",
	"T..d...D...d..T",
	"..d...d.d...d..",
	".t...t...t...t.",
	"....D.....D....",
	"d..D...d...D..d",
	"..D...d.d...D..",
	".D...t...t...D.",
	"T..d...T...d..T",
}

func premiumFor(ch byte) Premium {
	switch ch {
	case 'd':
		return DoubleLetter
	case 't':
		return TripleLetter
	case 'D':
		return DoubleWord
	case 'T':
		return TripleWord
	}
	return NoPremium
}
