package spots

// ENV_PREFIX is the prefix used to derive environment variable names for command-line flags,
// for example SPOTS_READER_URI for -reader-uri.
const ENV_PREFIX string = "SPOTS"

// DEFAULT_DATA_READER_URI is the whosonfirst/go-reader URI used to read source data files.
const DEFAULT_DATA_READER_URI string = "fs:///usr/local/data/travel-website/data"

// DEFAULT_DATA_WRITER_URI is the whosonfirst/go-writer URI used to write derived data files.
const DEFAULT_DATA_WRITER_URI string = "fs:///usr/local/data/travel-website/data"

// DEFAULT_IMAGE_WRITER_URI is the whosonfirst/go-writer URI used to write rendered maps.
const DEFAULT_IMAGE_WRITER_URI string = "fs:///usr/local/data/travel-website"

// DEFAULT_SQL_WRITER_URI is the whosonfirst/go-writer URI used to write SQL seed scripts.
const DEFAULT_SQL_WRITER_URI string = "fs:///usr/local/data/travel-website/workers/api"

const DEFAULT_SPOTS_INPUT string = "spots.json"

const DEFAULT_SPOTS_OUTPUT string = "spots_cleaned.json"

const DEFAULT_BOUNDARIES_INPUT string = "quangninh.geojson"

const DEFAULT_MAP_OUTPUT string = "quangninh_map_colored.png"

const DEFAULT_SQL_OUTPUT string = "seed.sql"
