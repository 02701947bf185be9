package vocab

// ChapterSize is the number of words in a chapter.
const ChapterSize = 20

// ChapterOf returns the 1-based chapter containing the word index.
func ChapterOf(index int) int {
	if index < 0 {
		return 1
	}
	return index/ChapterSize + 1
}

// ChapterCount returns how many chapters a level of n words has.
func ChapterCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + ChapterSize - 1) / ChapterSize
}

// ChapterStart returns the first word index of a 1-based chapter.
func ChapterStart(chapter int) int {
	if chapter < 1 {
		return 0
	}
	return (chapter - 1) * ChapterSize
}
