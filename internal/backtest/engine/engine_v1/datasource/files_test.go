package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type FilesTestSuite struct {
	suite.Suite
}

func TestFilesSuite(t *testing.T) {
	suite.Run(t, new(FilesTestSuite))
}

func (suite *FilesTestSuite) TestMonthRange() {
	start, end, ok := MonthRange("BTCUSDT-trades-2024-02.csv")
	suite.Require().True(ok)
	suite.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	suite.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	start, end, ok = MonthRange("ETHUSDT_2023_12.csv")
	suite.Require().True(ok)
	suite.Equal(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, ok = MonthRange("all.csv")
	suite.False(ok)

	_, _, ok = MonthRange("dump-2024-13.csv")
	suite.False(ok)
}

func (suite *FilesTestSuite) TestFilterFiles() {
	files := []string{
		"/d/S-2024-01.csv",
		"/d/S-2024-02.csv",
		"/d/S-2024-03.csv",
		"/d/extra.csv",
	}

	start := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	kept := FilterFiles(files, optional.Some(start), optional.Some(end))
	suite.Equal([]string{"/d/S-2024-02.csv", "/d/extra.csv"}, kept)

	kept = FilterFiles(files, optional.None[time.Time](), optional.Some(end))
	suite.Equal([]string{"/d/S-2024-01.csv", "/d/S-2024-02.csv", "/d/extra.csv"}, kept)

	kept = FilterFiles(files, optional.Some(start), optional.None[time.Time]())
	suite.Equal([]string{"/d/S-2024-02.csv", "/d/S-2024-03.csv", "/d/extra.csv"}, kept)

	kept = FilterFiles(files, optional.None[time.Time](), optional.None[time.Time]())
	suite.Equal(files, kept)
}

func (suite *FilesTestSuite) TestListFiles() {
	dir := suite.T().TempDir()

	for _, name := range []string{"b-2024-02.csv", "a-2024-01.CSV", "c.parquet", "notes.txt"} {
		suite.Require().NoError(os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	suite.Require().NoError(os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := ListFiles(dir)
	suite.Require().NoError(err)
	suite.Equal([]string{
		filepath.Join(dir, "a-2024-01.CSV"),
		filepath.Join(dir, "b-2024-02.csv"),
		filepath.Join(dir, "c.parquet"),
	}, files)

	files, err = ListFiles(filepath.Join(dir, "missing"))
	suite.NoError(err)
	suite.Empty(files)
}
