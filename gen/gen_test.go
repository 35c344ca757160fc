package gen

import (
	"errors"
	"strings"
	"testing"

	"github.com/ddlgen/ddlgen/gen/parser"
	"github.com/google/go-cmp/cmp"
)

const usersSQL = `CREATE TABLE Users (Id INT NOT NULL PRIMARY KEY AUTO_INCREMENT, Name VARCHAR(50));`

const blogSQL = usersSQL + `
CREATE TABLE Posts (
	Id INT NOT NULL PRIMARY KEY,
	UserId INT NOT NULL,
	FOREIGN KEY (UserId) REFERENCES Users(Id)
);`

const membershipSQL = `
CREATE TABLE Users (Id INT NOT NULL PRIMARY KEY, Name VARCHAR(50));
CREATE TABLE Group (Id INT NOT NULL PRIMARY KEY, Title VARCHAR(50));
CREATE TABLE UserGroups (
	UserId INT NOT NULL,
	GroupId INT NOT NULL,
	PRIMARY KEY (UserId, GroupId),
	FOREIGN KEY (UserId) REFERENCES Users(Id),
	FOREIGN KEY (GroupId) REFERENCES Group(Id)
);`

const usersObjects = `<?php
// Code generated. DO NOT EDIT.
// This file is meant to be re-generated in place and/or deleted at any time.
class Users {
    public function __construct(
        public int $Id,
        public ?string $Name,
    ) { }

    public static function ParseAssoc(array $assoc) {
        return new Users(
            $assoc["Id"],
            $assoc["Name"],
        );
    }
}

?>
`

const usersObjectsPHP7 = `<?php
// Code generated. DO NOT EDIT.
// This file is meant to be re-generated in place and/or deleted at any time.
class Users {
    public int $Id;
    public ?string $Name;

    public function __construct(
        int $Id,
        ?string $Name
    ) {
        $this->Id = $Id;
        $this->Name = $Name;
    }

    public static function ParseAssoc(array $assoc) {
        return new Users(
            $assoc["Id"],
            $assoc["Name"]
        );
    }
}

?>
`

const usersDatabase = `<?php
// Code generated. DO NOT EDIT.
// This file is meant to be re-generated in place and/or deleted at any time.
class UNDEFINED_DATABASE {
    /** @return Users[] */
    public static function GetAllUsers() : array {
        $output = [];
        $result = Database::Execute("SELECT * FROM Users");
        while ($row = $result->fetch_assoc())
            $output[] = Users::ParseAssoc($row);
        $result->free();
        return $output;
    }
    public static function GetUsers(int $Id) : ?Users {
        $result = Database::ExecuteAsPrepared("SELECT * FROM Users WHERE Id = ? LIMIT 1", "i", [$Id]);
        $row = $result->fetch_assoc();
        $result->free();
        if ($row == null) return null;
        return Users::ParseAssoc($row);
    }
    /**
     * @param int[] $identifiers
     * @return Users[]
     */
    public static function GetUsersPack(array $identifiers) : array {
        $count = count($identifiers);
        if ($count == 0) return [];
        $output = [];
        $result = Database::ExecuteAsPrepared("SELECT * FROM Users WHERE Id IN (".implode(",", array_fill(0, $count, "?")).")", str_repeat("i", $count), $identifiers);
        while ($row = $result->fetch_assoc())
            $output[] = Users::ParseAssoc($row);
        $result->free();
        return $output;
    }

    /* DB MANAGEMENT METHODS */
    /** @return int|string ID of new entry in DB (if the number is greater than maximal int value, it is returned as a string) */
    public static function CreateUsers(?string $Name) : int|string {
        Database::ExecuteAsPrepared("INSERT INTO Users (Name) VALUES(?)", "s", [$Name]);
        return Database::$Connection->insert_id;
    }
    public static function DeleteUsers(int $Id) {
        Database::ExecuteAsPrepared("DELETE FROM Users WHERE Id = ?", "i", [$Id]);
    }
    public static function ModifyUsers(int $Id, ?string $Name) {
        Database::ExecuteAsPrepared("UPDATE Users SET Id = ?, Name = ? WHERE Id = ?", "isi", [$Id, $Name, $Id]);
    }
}
?>
`

func mustGenerate(t *testing.T, input string, config Config) Files {
	t.Helper()

	files, err := Generate(input, config)
	if err != nil {
		t.Fatal(err)
	}

	return files
}

func content(t *testing.T, files Files, name string) string {
	t.Helper()

	f := files.Get(name)
	if f == nil {
		t.Fatalf("file %s was not generated, got %v", name, files.Names())
	}

	return f.Content()
}

func TestGenerateGolden(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		config Config
		file   string
		want   string
	}{
		"objects": {
			file: ObjectsFile,
			want: usersObjects,
		},
		"objects php7": {
			config: Config{LanguageVariant: "php7"},
			file:   ObjectsFile,
			want:   usersObjectsPHP7,
		},
		"database": {
			file: "UNDEFINED_DATABASE.php",
			want: usersDatabase,
		},
		"connection": {
			file: ConnectionFile,
			want: connectionTemplate,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			files := mustGenerate(t, usersSQL, tc.config)
			if diff := cmp.Diff(tc.want, content(t, files, tc.file)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestGenerateBlog(t *testing.T) {
	t.Parallel()

	files := mustGenerate(t, blogSQL, Config{})

	cases := map[string]struct {
		file string
		want []string
		not  []string
	}{
		"accessors": {
			file: "UNDEFINED_DATABASE.php",
			want: []string{
				"public static function GetAllPosts(bool $resolve = false) : array {",
				"public static function GetPosts(int $Id, bool $resolve = true) : ?Posts {",
				"public static function GetPostsPack(array $identifiers, bool $resolve = true) : array {",
				"$output[] = Posts::ParseAssoc($row, $resolve);",
				"return Posts::ParseAssoc($row, $resolve);",
				`Database::ExecuteAsPrepared("INSERT INTO Posts (Id, UserId) VALUES(?,?)", "ii", [$Id, $UserId]);`,
				`Database::ExecuteAsPrepared("DELETE FROM Posts WHERE Id = ?", "i", [$Id]);`,
				"public static function ModifyPosts(int $Id, int $UserId) {",
			},
			not: []string{"GetPostsPackBy"},
		},
		"referencing record": {
			file: ObjectsFile,
			want: []string{
				"    public ?Users $UserId = null;\n\n    public function __construct(\n",
				"        public int $UserIdId,\n        bool $resolve = true,\n    ) { $resolve ? $this->Resolve() : null; }\n",
				"public static function ParseAssoc(array $assoc, bool $resolve = true) {",
				"            $assoc[\"UserId\"],\n            $resolve,\n",
				"if ($this->UserIdId !== null) $this->UserId = UNDEFINED_DATABASE::GetUsers($this->UserIdId);",
			},
		},
		"referenced record": {
			file: ObjectsFile,
			want: []string{
				"/** @return Posts[] */",
				"public function GetReferencesFromPostsByUserIdId(bool $resolve = false) : array {",
				`$result = Database::ExecuteAsPrepared("SELECT * FROM Posts WHERE UserId = ?", "i", [$this->Id]);`,
				"$output[] = Posts::ParseAssoc($row, $resolve);",
			},
			not: []string{"public ?array"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := content(t, files, tc.file)
			for _, want := range tc.want {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q in:\n%s", want, got)
				}
			}
			for _, not := range tc.not {
				if strings.Contains(got, not) {
					t.Errorf("unexpected %q in:\n%s", not, got)
				}
			}
		})
	}
}

func TestGenerateJoinTable(t *testing.T) {
	t.Parallel()

	files := mustGenerate(t, membershipSQL, Config{})

	db := content(t, files, "UNDEFINED_DATABASE.php")
	for _, want := range []string{
		"public static function DeleteUserGroups(int $UserId, int $GroupId) {",
		"public static function GetUserGroupsPackByUserId(int $UserId, bool $resolve = true) : array {",
		"public static function GetUserGroupsPackByGroupId(int $GroupId, bool $resolve = true) : array {",
		" * @param (int)[][] $identifiers [ ..., [$UserId, $GroupId], ...]",
		`array_fill(0, $count, "(UserId = ? AND GroupId = ?)")), str_repeat("ii", $count), array_merge(...$identifiers));`,
	} {
		if !strings.Contains(db, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(db, "ModifyUserGroups") {
		t.Error("join tables must not get a modify accessor")
	}

	objects := content(t, files, ObjectsFile)
	for _, want := range []string{
		"public ?array $Groups = null;",
		"public function ResolveGroups() {",
		"$this->Groups = UNDEFINED_DATABASE::GetGroupPack(array_map(function($x) { return $x->GroupIdId; }, $this->GetReferencesFromUserGroupsByUserIdId(false)));",
		"return $x->UserIdId; }, $this->GetReferencesFromUserGroupsByGroupIdId(false)));",
		"if ($this->GroupIdId !== null) $this->GroupId = UNDEFINED_DATABASE::GetGroup($this->GroupIdId);",
	} {
		if !strings.Contains(objects, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestGenerateNoPrimaryKey(t *testing.T) {
	t.Parallel()

	files := mustGenerate(t, `CREATE TABLE Logs (Message TEXT, Level INT NOT NULL, KEY (Level));`, Config{})

	db := content(t, files, "UNDEFINED_DATABASE.php")
	for _, not := range []string{"GetAllLogs", "GetLogs", "DeleteLogs", "ModifyLogs"} {
		if strings.Contains(db, not) {
			t.Errorf("unexpected %s for a table without a primary key", not)
		}
	}
	if !strings.Contains(db, "public static function CreateLogs(?string $Message, int $Level) : int|string {") {
		t.Errorf("missing create accessor in:\n%s", db)
	}
}

func TestGenerateIndexes(t *testing.T) {
	t.Parallel()

	files := mustGenerate(t, `CREATE TABLE Accounts (
		Id INT NOT NULL PRIMARY KEY,
		Email VARCHAR(120) NOT NULL UNIQUE,
		Country CHAR(2),
		Active BIT(1),
		Created DATETIME,
		KEY ByCountry (Country)
	);`, Config{})

	db := content(t, files, "UNDEFINED_DATABASE.php")
	for _, want := range []string{
		"public static function GetAccountsByEmail(string $Email) : ?Accounts {",
		`$result = Database::ExecuteAsPrepared("SELECT * FROM Accounts WHERE Email = ? LIMIT 1", "s", [$Email]);`,
		"public static function GetAllAccountsByByCountry(?string $Country) : array {",
		`$result = Database::ExecuteAsPrepared("SELECT * FROM Accounts WHERE Country = ?", "s", [$Country]);`,
	} {
		if !strings.Contains(db, want) {
			t.Errorf("missing %q", want)
		}
	}

	objects := content(t, files, ObjectsFile)
	for _, want := range []string{
		"public ?bool $Active,",
		"public ?int $Created,",
		`$assoc["Active"] === null ? null : (bool)$assoc["Active"],`,
		`$assoc["Created"] === null ? null : strtotime($assoc["Created"]),`,
	} {
		if !strings.Contains(objects, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestGenerateFiles(t *testing.T) {
	t.Parallel()

	input := `
		USE Shop;
		CREATE TABLE Products (Id INT NOT NULL PRIMARY KEY);
		USE Empty;
		USE Stock;
		CREATE TABLE Items (Id INT NOT NULL PRIMARY KEY, ProductId INT, FOREIGN KEY (ProductId) REFERENCES Shop.Products(Id));
	`

	cases := map[string]struct {
		config Config
		want   []string
	}{
		"default": {
			want: []string{ObjectsFile, "Shop.php", "Stock.php", ConnectionFile},
		},
		"no connection file": {
			config: Config{NoConnectionFile: true},
			want:   []string{ObjectsFile, "Shop.php", "Stock.php"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			files := mustGenerate(t, input, tc.config)
			if diff := cmp.Diff(tc.want, files.Names()); diff != "" {
				t.Fatal(diff)
			}

			objects := content(t, files, ObjectsFile)
			want := "if ($this->ProductIdId !== null) $this->ProductId = Shop::GetProducts($this->ProductIdId);"
			if !strings.Contains(objects, want) {
				t.Errorf("missing %q in:\n%s", want, objects)
			}
		})
	}
}

func TestGenerateIndent(t *testing.T) {
	t.Parallel()

	files := mustGenerate(t, usersSQL, Config{Indent: "\t"})

	want := "class Users {\n\tpublic function __construct(\n\t\tpublic int $Id,\n"
	if got := content(t, files, ObjectsFile); !strings.HasPrefix(got[strings.Index(got, "class"):], want) {
		t.Errorf("want: %q, got: %q", want, got)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	first := mustGenerate(t, membershipSQL+blogSQL[len(usersSQL):], Config{})
	second := mustGenerate(t, membershipSQL+blogSQL[len(usersSQL):], Config{})

	if diff := cmp.Diff(first.Map(), second.Map()); diff != "" {
		t.Fatal(diff)
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input  string
		config Config
		want   error
	}{
		"empty": {
			input: " \n\t ",
			want:  ErrNoInput,
		},
		"unknown table": {
			input: `CREATE TABLE Posts (Id INT NOT NULL PRIMARY KEY, UserId INT, FOREIGN KEY (UserId) REFERENCES Users(Id));`,
			want:  parser.ErrUnresolved,
		},
		"unknown variant": {
			input:  usersSQL,
			config: Config{LanguageVariant: "php5"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			files, err := Generate(tc.input, tc.config)
			if err == nil {
				t.Fatal("expected an error")
			}
			if files != nil {
				t.Errorf("no files are returned on error, got %v", files.Names())
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("want: %v, got: %v", tc.want, err)
			}
		})
	}
}

func TestDuplicateTableNames(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema(`
		USE A; CREATE TABLE Users (Id INT NOT NULL PRIMARY KEY);
		USE B; CREATE TABLE Users (Id INT NOT NULL PRIMARY KEY);
		CREATE TABLE Posts (Id INT NOT NULL PRIMARY KEY);
	`, Config{})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"Users"}, DuplicateTableNames(schema)); diff != "" {
		t.Fatal(diff)
	}
}

func TestUnresolvedForeignKeys(t *testing.T) {
	t.Parallel()

	schema, err := ParseSchema(`
		CREATE TABLE Loose (Code INT NOT NULL);
		CREATE TABLE Coded (Id INT NOT NULL PRIMARY KEY, Code INT NOT NULL UNIQUE, Other INT NOT NULL);
		CREATE TABLE Ref (
			Id INT NOT NULL PRIMARY KEY,
			C INT, D INT, E INT, F INT,
			FOREIGN KEY (C) REFERENCES Loose(Code),
			FOREIGN KEY (D) REFERENCES Coded(Id),
			FOREIGN KEY (E) REFERENCES Coded(Code),
			FOREIGN KEY (F) REFERENCES Coded(Other)
		);
	`, Config{})
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, fk := range UnresolvedForeignKeys(schema) {
		got = append(got, fk.String())
	}

	want := []string{"Ref.C -> Loose.Code", "Ref.F -> Coded.Other"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}

	files, err := Run(schema, Config{})
	if err != nil {
		t.Fatal(err)
	}

	objects := content(t, files, ObjectsFile)
	for _, want := range []string{
		"if ($this->DId !== null) $this->D = UNDEFINED_DATABASE::GetCoded($this->DId);",
		"if ($this->ECode !== null) $this->E = UNDEFINED_DATABASE::GetCodedByCode($this->ECode);",
	} {
		if !strings.Contains(objects, want) {
			t.Errorf("missing %q", want)
		}
	}
	for _, not := range []string{"$this->C =", "$this->F ="} {
		if strings.Contains(objects, not) {
			t.Errorf("unexpected %q", not)
		}
	}
}
